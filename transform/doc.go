// Package transform normalizes strings inside decoded response shapes and
// data-table rows. Shapes call it from their Normalize methods; the step
// definitions call it on every row before building a request body.
package transform
