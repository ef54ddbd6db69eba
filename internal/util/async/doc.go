// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunAll] waits for every task and reports every failure as a
// [BatchError], for batches where one unit failing must not hide the rest.
package async
