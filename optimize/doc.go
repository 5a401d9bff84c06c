// SPDX-License-Identifier: MIT

// Package optimize implements short-burst optimization over ReCom chains.
//
// Short bursts chain together many short unbiased explorations: each burst
// is a fresh Chain of BurstLength steps started from the best plan seen so
// far, and every plan visited updates the running best whenever it scores
// better than or equal to it. Ties move the best plan forward, which lets
// the search drift across plateaus.
package optimize
