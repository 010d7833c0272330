package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/huangsam/proneness/core/agg"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/iocache"
	"github.com/huangsam/proneness/internal/metrics"
	"github.com/huangsam/proneness/schema"
)

// currentCacheVersion defines the version of the cached commit log layout
const currentCacheVersion = 1

// cachedCommitLog returns the parsed commit log of cfg.RepoPath. Logs are
// cached per repository root and HEAD, so an entry never goes stale.
func cachedCommitLog(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, rec *metrics.Recorder) ([]schema.RawCommit, error) {
	var store contract.CommitCacheStore
	if mgr != nil {
		store = mgr.GetCommitStore()
	}
	if store == nil {
		// Fallback to direct computation
		return fetchCommitLog(ctx, cfg, client)
	}

	key, err := generateCacheKey(ctx, cfg, client)
	if err != nil {
		contract.LogWarn("Commit cache disabled for this run", err)
		return fetchCommitLog(ctx, cfg, client)
	}

	if commits, ok := checkCacheHit(store, key); ok {
		rec.CacheLookup(true)
		return commits, nil
	}
	rec.CacheLookup(false)
	return computeAndStore(ctx, cfg, client, store, key)
}

// fetchCommitLog runs git and parses its output.
func fetchCommitLog(ctx context.Context, cfg *contract.Config, client contract.GitClient) ([]schema.RawCommit, error) {
	out, err := client.GetCommitLog(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}
	return agg.ParseCommitLog(out)
}

// checkCacheHit attempts to retrieve and decode a cached commit log
func checkCacheHit(store contract.CommitCacheStore, key string) ([]schema.RawCommit, bool) {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil, false
	}
	var commits []schema.RawCommit
	if err := iocache.DecodeBlob(data, &commits); err != nil {
		return nil, false
	}
	return commits, true
}

// computeAndStore fetches the commit log and stores it in the cache
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CommitCacheStore, key string) ([]schema.RawCommit, error) {
	commits, err := fetchCommitLog(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	if data, err := iocache.EncodeBlob(commits); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache commit log", err)
		}
	}
	return commits, nil
}

// generateCacheKey creates a unique key from the repository root and its HEAD
func generateCacheKey(ctx context.Context, cfg *contract.Config, client contract.GitClient) (string, error) {
	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s:%s", cfg.RepoPath, repoHash)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key))), nil
}
