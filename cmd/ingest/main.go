// Command ingest bulk-indexes a directory of documents into one of the
// knowledge bases. Unlike the REST ingest endpoint it runs the pipeline
// synchronously so the exit code reflects the outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lexi-legal-be/internal/bootstrap"
	"lexi-legal-be/internal/config"
	"lexi-legal-be/pkg/database"
	"lexi-legal-be/pkg/extract"
	"lexi-legal-be/pkg/vectorstore"

	"github.com/fatih/color"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func main() {
	domain := flag.String("domain", bootstrap.LawsDomain,
		fmt.Sprintf("knowledge domain (%s or %s)", bootstrap.LawsDomain, bootstrap.ProceduresDomain))
	dir := flag.String("dir", "", "directory of documents to index")
	flag.Parse()

	if *dir == "" {
		color.Red("missing -dir")
		flag.Usage()
		os.Exit(2)
	}
	if *domain != bootstrap.LawsDomain && *domain != bootstrap.ProceduresDomain {
		color.Red("unknown domain %q", *domain)
		os.Exit(2)
	}

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	store, ok := container.Stores[*domain]
	if !ok {
		color.Red("no store for domain %q", *domain)
		os.Exit(1)
	}

	ctx := context.Background()
	indexed, failed := 0, 0

	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if err := indexFile(ctx, container, store, path); err != nil {
			color.Red("✗ %s: %v", path, err)
			failed++
			return nil
		}
		color.Green("✓ %s", path)
		indexed++
		return nil
	})
	if err != nil {
		color.Red("walk failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("Indexed %d document(s) into %s, %d failed", indexed, *domain, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func indexFile(ctx context.Context, container *bootstrap.Container, store vectorstore.Store, path string) error {
	text, err := container.Extractor.Extract(ctx, path)
	if err != nil {
		return err
	}

	chunks := extract.ChunkText(text, extract.DefaultChunkSize, extract.DefaultChunkOverlap)
	if len(chunks) == 0 {
		return fmt.Errorf("no text content")
	}

	docs := make([]vectorstore.Document, 0, len(chunks))
	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := container.Embedder.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		docs = append(docs, vectorstore.Document{
			ID:   fmt.Sprintf("%s#%d", filepath.Base(path), i),
			Text: chunk,
			Metadata: map[string]string{
				"source":      filepath.Base(path),
				"chunk_index": fmt.Sprintf("%d", i),
			},
		})
		embeddings = append(embeddings, resp.Embedding.Values)
	}

	return store.Add(ctx, docs, embeddings)
}
