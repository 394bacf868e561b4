package translate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func upper(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
	results := make([]TranslationResult, len(items))
	for i, item := range items {
		results[len(items)-1-i] = TranslationResult{Index: item.Index, Text: strings.ToUpper(item.Text)}
	}
	return results, nil
}

func numbered(n int) []TranslationItem {
	items := make([]TranslationItem, n)
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: string(rune('a' + i%26))}
	}
	return items
}

func TestTranslateBatchesSortsResults(t *testing.T) {
	var calls atomic.Int32
	fn := func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
		calls.Add(1)
		return upper(ctx, items)
	}

	results, err := translateBatches(context.Background(), numbered(23), 5, 3, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("expected 5 batches, got %d", calls.Load())
	}
	if len(results) != 23 {
		t.Fatalf("expected 23 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("expected index %d at %d, got %d", i, i, r.Index)
		}
	}
	if results[2].Text != "C" {
		t.Errorf("expected C, got %q", results[2].Text)
	}
}

func TestTranslateBatchesSingleBatch(t *testing.T) {
	results, err := translateBatches(context.Background(), numbered(3), 50, 3, upper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 || results[0].Index != 0 {
		t.Errorf("expected 3 sorted results, got %v", results)
	}
}

func TestTranslateBatchesEmpty(t *testing.T) {
	results, err := translateBatches(context.Background(), nil, 10, 2, upper)
	if err != nil || len(results) != 0 {
		t.Errorf("expected no results, got %v, %v", results, err)
	}
}

func TestTranslateBatchesStopsOnError(t *testing.T) {
	boom := errors.New("quota exceeded")
	fn := func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
		if items[0].Index == 10 {
			return nil, boom
		}
		return upper(ctx, items)
	}

	_, err := translateBatches(context.Background(), numbered(30), 10, 2, fn)
	if !errors.Is(err, boom) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if !strings.Contains(err.Error(), "batch 1 failed") {
		t.Errorf("expected failing batch in message, got %v", err)
	}
}

func TestTranslateBatchesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := translateBatches(ctx, numbered(30), 10, 2, upper)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
