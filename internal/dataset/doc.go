// Package dataset owns the on-disk annotation tables for the ElicitCam study.
//
// A table holds one row per video identifier and eight slot columns, each slot
// either filled with a free-text value or explicitly absent. Tables are loaded
// from and persisted to CSV with a fixed schema; saves are full-table atomic
// rewrites so an interrupted annotation run never corrupts previously
// committed cells. The package also provides the post-processing cleaner that
// normalizes "no gesture" boilerplate to absence and strips trailing
// punctuation.
//
// All mutation happens through EnsureRow and SetCell so identifier uniqueness
// and the fill-once policy can be enforced in one place.
package dataset
