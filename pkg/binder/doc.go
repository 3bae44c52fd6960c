// Package binder reads HTTP request bodies with a size limit.
//
// JSON decodes a JSON body into a struct; Raw returns the exact bytes, which
// webhook handlers need for signature verification.
//
//	var req checkoutRequest
//	if err := binder.JSON(r, &req); err != nil {
//		// 400
//	}
package binder
