package model

// CorpusFile is one vectorized source file.
type CorpusFile struct {
	Hash   string
	Tokens []TokenIndex
}

// FoldInfo describes one fold of the corpus.
type FoldInfo struct {
	Fold  int
	Files int
}
