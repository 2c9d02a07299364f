// Package meta defines the data model shared by the matching engine and the
// catalog client: locally observed tracks, the track sets they are grouped
// into, and candidate releases returned by a catalog lookup.
//
// All types are immutable snapshots for the duration of one match attempt.
// Absent fields are represented by their zero value; helpers such as
// LocalTrack.HasIndex make presence checks explicit so comparators can treat
// absence as a first-class case rather than an error.
package meta
