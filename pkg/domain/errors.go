package domain

import "errors"

var (
	ErrConfig            = errors.New("configuration error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEncryptedDocument = errors.New("document is encrypted")
	ErrInvalidChunking   = errors.New("invalid chunking parameters")
	ErrCorruptIndex      = errors.New("persisted index is unreadable")
	ErrIndexNotFound     = errors.New("session index not found")
	ErrMalformedResponse = errors.New("generation output failed structured parsing")
	ErrProviderTimeout   = errors.New("provider call timed out")
	ErrProvider          = errors.New("provider call failed")
	ErrRetrievalChain    = errors.New("retrieval chain failed")
)
