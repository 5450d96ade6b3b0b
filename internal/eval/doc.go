// Package eval scores predicted sky masks against hand-labeled ground truth.
//
// Scores come from the pixel confusion matrix with sky as the positive class.
// Per-image metrics are averaged with Aggregate to summarise a dataset.
package eval
