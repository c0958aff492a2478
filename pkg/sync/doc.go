// Package sync implements the incremental fetch-and-merge run: resolve
// the tracked account, fetch one page of recent tweets (optionally
// bounded by the highest locally known ID), keep the image-bearing ones,
// merge them with the persisted dataset and write it back.
package sync
