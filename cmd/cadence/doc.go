// Command cadence matches local album rips against the MusicBrainz catalog
// and reports how confidently each candidate release fits.
package main
