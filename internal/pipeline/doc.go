// Package pipeline runs a conversion batch: plan the jobs, invoke ffmpeg for
// each one in order, and report a summary.
//
// Jobs run strictly one at a time. A failing job (nonzero exit, launch error,
// timeout, or panic) is reported with its source and destination and never
// stops the batch. Cancelling the context stops the batch between jobs.
package pipeline
