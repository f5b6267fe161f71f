package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/docportal/docportal/pkg/domain"
	"github.com/docportal/docportal/pkg/index"
	"github.com/docportal/docportal/pkg/loader"
	"github.com/docportal/docportal/pkg/rag"
)

// ChatIndex ingests uploaded files into the session's similarity index:
// save, extract pages, chunk, dedup against the ledger, embed, persist.
func (d *Deps) ChatIndex(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, d.Logger, "indexing",
			fmt.Errorf("%w: invalid multipart form: %v", domain.ErrInvalidInput, err))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respondError(c, d.Logger, "indexing",
			fmt.Errorf("%w: no files uploaded", domain.ErrInvalidInput))
		return
	}

	useSessionDirs := formBool(c, "use_session_dirs", true)
	chunkSize := formInt(c, "chunk_size", d.Cfg.Chunker.ChunkSize)
	chunkOverlap := formInt(c, "chunk_overlap", d.Cfg.Chunker.Overlap)
	k := formInt(c, "k", d.Cfg.Retrieval.TopK)

	sessionID, uploadDir, indexDir, err := d.resolveDirs(c.PostForm("session_id"), useSessionDirs, true)
	if err != nil {
		respondError(c, d.Logger, "indexing", err)
		return
	}

	for _, header := range files {
		if !loader.SupportedExtension(header.Filename) {
			respondError(c, d.Logger, "indexing",
				fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(header.Filename)))
			return
		}
	}

	lock := d.Locks.Get(indexDir)
	lock.Lock()
	defer lock.Unlock()

	idx, err := d.Indexes.Open(indexDir)
	if err != nil {
		respondError(c, d.Logger, "indexing", err)
		return
	}
	defer func() { _ = idx.Close() }()

	var total domain.AddResult
	for _, header := range files {
		path, err := saveUpload(newUpload(header), uploadDir)
		if err != nil {
			respondError(c, d.Logger, "indexing", err)
			return
		}

		pages, err := d.Loader.Load(path)
		if err != nil {
			respondError(c, d.Logger, "indexing", err)
			return
		}

		chunks, err := d.Chunker.Split(pages, chunkSize, chunkOverlap)
		if err != nil {
			respondError(c, d.Logger, "indexing", err)
			return
		}

		res, err := d.Indexes.Add(c.Request.Context(), idx, chunks)
		total.Added += res.Added
		total.Skipped += res.Skipped
		if err != nil {
			respondError(c, d.Logger, "indexing", err)
			return
		}
	}

	if err := d.Indexes.Persist(idx); err != nil {
		respondError(c, d.Logger, "indexing", err)
		return
	}

	d.Logger.Info("session indexed",
		"session_id", sessionID, "files", len(files),
		"added", total.Added, "skipped", total.Skipped)

	c.JSON(http.StatusOK, gin.H{
		"session_id":       sessionID,
		"k":                k,
		"use_session_dirs": useSessionDirs,
		"added":            total.Added,
		"skipped":          total.Skipped,
	})
}

// ChatQuery answers a question against the session's persisted index via
// the rewrite-retrieve-answer chain.
func (d *Deps) ChatQuery(c *gin.Context) {
	question := c.PostForm("question")
	if question == "" {
		respondError(c, d.Logger, "query",
			fmt.Errorf("%w: question is required", domain.ErrInvalidInput))
		return
	}

	useSessionDirs := formBool(c, "use_session_dirs", true)
	k := formInt(c, "k", d.Cfg.Retrieval.TopK)
	sessionID := c.PostForm("session_id")

	if useSessionDirs && sessionID == "" {
		respondError(c, d.Logger, "query",
			fmt.Errorf("%w: session_id is required when use_session_dirs is true", domain.ErrInvalidInput))
		return
	}

	history, err := parseHistory(c.PostForm("history"))
	if err != nil {
		respondError(c, d.Logger, "query", err)
		return
	}

	_, _, indexDir, err := d.resolveDirs(sessionID, useSessionDirs, false)
	if err != nil {
		respondError(c, d.Logger, "query", err)
		return
	}

	if !index.Exists(indexDir) {
		respondError(c, d.Logger, "query",
			fmt.Errorf("%w: %s", domain.ErrIndexNotFound, sessionID))
		return
	}

	lock := d.Locks.Get(indexDir)
	lock.RLock()
	defer lock.RUnlock()

	idx, err := d.Indexes.Open(indexDir)
	if err != nil {
		respondError(c, d.Logger, "query", err)
		return
	}
	defer func() { _ = idx.Close() }()

	chain, err := rag.NewChain(d.Gateway, d.Indexes.Retriever(idx, k), d.Prompts, d.Logger, sessionID)
	if err != nil {
		respondError(c, d.Logger, "query", err)
		return
	}

	answer, err := chain.Invoke(c.Request.Context(), question, history)
	if err != nil {
		respondError(c, d.Logger, "query", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":     answer,
		"session_id": sessionID,
		"k":          k,
		"engine":     d.Cfg.Provider.Default,
	})
}

// resolveDirs maps a session to its upload and index directories. With
// use_session_dirs disabled both collapse to the configured base paths.
func (d *Deps) resolveDirs(sessionID string, useSessionDirs, create bool) (id, uploadDir, indexDir string, err error) {
	if !useSessionDirs {
		return sessionID, d.Cfg.Storage.UploadBase, d.Cfg.Storage.IndexBase, nil
	}

	id, uploadDir, err = d.Sessions.Resolve(d.Cfg.Storage.UploadBase, sessionID, create)
	if err != nil {
		return "", "", "", err
	}
	_, indexDir, err = d.Sessions.Resolve(d.Cfg.Storage.IndexBase, id, create)
	if err != nil {
		return "", "", "", err
	}
	return id, uploadDir, indexDir, nil
}

func parseHistory(raw string) ([]domain.ChatTurn, error) {
	if raw == "" {
		return nil, nil
	}
	var history []domain.ChatTurn
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("%w: history must be a JSON array of {role, content}: %v", domain.ErrInvalidInput, err)
	}
	return history, nil
}

func formBool(c *gin.Context, key string, fallback bool) bool {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func formInt(c *gin.Context, key string, fallback int) int {
	raw := c.PostForm(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
