// Package dataset loads and samples directories of camera photographs.
//
// Two layouts are supported. A camera directory holds images directly and is
// sampled with LoadRandom. A labeled tree holds one level of subdirectories
// whose image files carry a day/night name prefix and is read with LoadAll.
// Random selections are seeded so that runs are repeatable.
package dataset
