// Package dataset builds the refresh tasks for each persisted dataset:
// stocks, coins in USD, coins in TRY, and global market stats. Each task is
// one full pass: aggregate, project, persist, with carry-over of the
// previous snapshot when a pass yields nothing.
package dataset
