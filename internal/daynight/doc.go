// Package daynight labels outdoor photographs as Day or Night from their
// mean brightness.
//
// The mean is taken over every pixel and all three colour channels on the
// 0-255 scale. A photograph whose mean reaches the threshold is Day. The
// default threshold of 97.0 was derived from labeled camera footage; Calibrate
// recomputes it for a new dataset as the midpoint of the average day mean and
// the average night mean.
//
// Labeled sample sets follow a file naming convention: names starting with
// "d" are day shots and names starting with "n" are night shots.
package daynight
