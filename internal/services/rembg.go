package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Segmenter is the external image-segmentation capability: image bytes in,
// image bytes with the background removed out.
type Segmenter interface {
	Segment(ctx context.Context, image []byte) ([]byte, error)
}

type photoroomSegmenter struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewPhotoroomSegmenter returns a Segmenter backed by an HTTP
// background-removal API authenticated with an x-api-key header.
func NewPhotoroomSegmenter(apiURL, apiKey string) Segmenter {
	return &photoroomSegmenter{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *photoroomSegmenter) Segment(ctx context.Context, image []byte) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image_file", "image")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("segmentation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("segmentation service returned status %d: %s", resp.StatusCode, snippet)
	}

	return io.ReadAll(resp.Body)
}

// BackgroundProcessor removes backgrounds from cached image artifacts. Output
// is written next to the input as processed-<name>; an existing output short-
// circuits the external call.
type BackgroundProcessor struct {
	store      ImageStore
	segmenter  Segmenter
	dir        string
	publicPath string
}

func NewBackgroundProcessor(store ImageStore, segmenter Segmenter, dir, publicPath string) *BackgroundProcessor {
	return &BackgroundProcessor{store: store, segmenter: segmenter, dir: dir, publicPath: publicPath}
}

// Process returns the reference of the background-removed variant of ref.
// Placeholder references pass through untouched, and any failure falls back
// to the original reference so a bad image never fails its row.
func (p *BackgroundProcessor) Process(ctx context.Context, ref string) string {
	local, ok := p.store.LocalPath(ref)
	if !ok {
		return ref
	}

	outName := "processed-" + filepath.Base(local)
	outLocal := filepath.Join(p.dir, outName)
	if _, err := os.Stat(outLocal); err == nil {
		return path.Join(p.publicPath, outName) // already processed
	}

	data, err := os.ReadFile(local)
	if err != nil {
		log.Printf("WARN: cannot read artifact %s for background removal: %v", local, err)
		return ref
	}

	processed, err := p.segmenter.Segment(ctx, data)
	if err != nil {
		log.Printf("WARN: background removal failed for %s, keeping original: %v", filepath.Base(local), err)
		return ref
	}

	if err := writeFileAtomic(p.dir, outLocal, processed); err != nil {
		log.Printf("WARN: failed to store processed image %s: %v", outName, err)
		return ref
	}

	return path.Join(p.publicPath, outName)
}
