// Package batch evaluates many load calculations concurrently. Items are
// independent: a package that fails validation is reported on its own item
// and never aborts the rest of the batch.
package batch
