package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/jayantmadugula/corpus-parsing-scripts/dataset"
	"github.com/jayantmadugula/corpus-parsing-scripts/dataset/restaurants"
	"github.com/jayantmadugula/corpus-parsing-scripts/dataset/semeval"
	"github.com/jayantmadugula/corpus-parsing-scripts/dataset/socc"
	"github.com/jayantmadugula/corpus-parsing-scripts/dataset/sst"
	"github.com/jayantmadugula/corpus-parsing-scripts/schema"
	"github.com/jayantmadugula/corpus-parsing-scripts/store"
)

// Convert runs the read-normalize-write pipeline to completion for exactly
// one dataset. Any parse, validation, or storage error aborts the run; the
// partially written destination is left as-is.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	if req.Logf == nil {
		req.Logf = func(string, ...any) {}
	}
	if !knownDataset(req.Dataset) {
		return nil, fmt.Errorf("unknown dataset %q (expected one of %s)", req.Dataset, strings.Join(Names(), "|"))
	}
	st, err := store.New(store.WithDSN(req.DBPath))
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	if err := st.SetMeta(ctx, "dataset", req.Dataset); err != nil {
		return nil, err
	}

	run := &conversion{service: s, store: st, req: req, result: &ConvertResult{Dataset: req.Dataset}}
	switch req.Dataset {
	case DatasetSemEval16:
		err = run.semEval16(ctx)
	case DatasetRestaurantReviews:
		err = run.restaurantReviews(ctx)
	case DatasetSOCC:
		err = run.socc(ctx)
	case DatasetSST:
		err = run.sst(ctx)
	}
	if err != nil {
		return nil, err
	}
	req.Logf("convert dataset=%s assets=%d documents=%d segments=%d annotations=%d",
		req.Dataset, run.result.Assets, run.result.Documents, run.result.Segments, run.result.Annotations)
	return run.result, nil
}

// conversion carries the state of one dataset run.
type conversion struct {
	service *Service
	store   *store.Store
	req     ConvertRequest
	result  *ConvertResult
}

// assetItem is a downloaded source file with its provenance recorded.
type assetItem struct {
	name string
	url  string
	data []byte
}

// loadAssets lists the input location, downloads each matching file, and
// records a provenance row per asset. A missing input is a ParseError.
func (c *conversion) loadAssets(ctx context.Context, location string, exts ...string) ([]assetItem, error) {
	objects, err := c.service.source.List(ctx, location)
	if err != nil {
		return nil, &dataset.ParseError{Path: location, Err: err}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].URL() < objects[j].URL() })
	var items []assetItem
	for _, object := range objects {
		if object.IsDir() || !matchExt(object.Name(), exts) {
			continue
		}
		data, err := c.service.source.Download(ctx, object)
		if err != nil {
			return nil, &dataset.ParseError{Path: object.URL(), Err: err}
		}
		checksum, err := dataset.Checksum(data)
		if err != nil {
			return nil, &dataset.ParseError{Path: object.URL(), Err: err}
		}
		if err := c.store.RecordAsset(ctx, store.Asset{
			ID:       object.Name(),
			Path:     object.URL(),
			Checksum: checksum,
			Size:     int64(len(data)),
			ModTime:  object.ModTime(),
		}); err != nil {
			return nil, err
		}
		c.req.Logf("asset dataset=%s path=%s size=%d checksum=%s", c.req.Dataset, object.URL(), len(data), checksum)
		items = append(items, assetItem{name: object.Name(), url: object.URL(), data: data})
	}
	c.result.Assets = len(items)
	return items, nil
}

// insert writes one normalized document and accumulates run counters.
func (c *conversion) insert(ctx context.Context, doc *schema.Document) error {
	if _, err := c.store.InsertDocument(ctx, doc); err != nil {
		return err
	}
	c.result.Documents++
	c.result.Segments += len(doc.Segments)
	c.result.Annotations += len(doc.Annotations)
	for _, seg := range doc.Segments {
		c.result.Annotations += len(seg.Annotations)
	}
	if c.req.Progress != nil {
		c.req.Progress(c.req.Dataset, c.result.Documents)
	}
	return nil
}

func (c *conversion) semEval16(ctx context.Context) error {
	items, err := c.loadAssets(ctx, c.req.InputPath, ".xml")
	if err != nil {
		return err
	}
	for _, item := range items {
		reader := semeval.NewReader(bytes.NewReader(item.data), item.url)
		for {
			review, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			doc, err := semeval.Normalize(review)
			if err != nil {
				return fmt.Errorf("%s: %w", item.url, err)
			}
			if err := c.insert(ctx, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *conversion) restaurantReviews(ctx context.Context) error {
	items, err := c.loadAssets(ctx, c.req.InputPath, ".xml")
	if err != nil {
		return err
	}
	for _, item := range items {
		restaurant, err := restaurants.Parse(item.data, item.url)
		if err != nil {
			return err
		}
		docs, err := restaurants.Normalize(restaurant)
		if err != nil {
			return fmt.Errorf("%s: %w", item.url, err)
		}
		for _, doc := range docs {
			if err := c.insert(ctx, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *conversion) socc(ctx context.Context) error {
	items, err := c.loadAssets(ctx, c.req.InputPath, ".csv", ".tsv", ".xlsx")
	if err != nil {
		return err
	}
	for _, item := range items {
		reader, err := openSOCCReader(item)
		if err != nil {
			return err
		}
		for {
			article, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			doc, err := socc.Normalize(article)
			if err != nil {
				return fmt.Errorf("%s: %w", item.url, err)
			}
			if err := c.insert(ctx, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

func openSOCCReader(item assetItem) (*socc.Reader, error) {
	switch strings.ToLower(path.Ext(item.name)) {
	case ".tsv":
		return socc.NewCSVReader(bytes.NewReader(item.data), item.url, '\t')
	case ".xlsx":
		return socc.NewXLSXReader(item.data, item.url)
	default:
		return socc.NewCSVReader(bytes.NewReader(item.data), item.url, ',')
	}
}

func (c *conversion) sst(ctx context.Context) error {
	items, err := c.loadAssets(ctx, c.req.InputPath, ".txt")
	if err != nil {
		return err
	}
	var dictionary, labels *assetItem
	for i := range items {
		switch strings.ToLower(items[i].name) {
		case sst.DictionaryFile:
			dictionary = &items[i]
		case sst.LabelsFile:
			labels = &items[i]
		}
	}
	if dictionary == nil {
		return &dataset.ParseError{Path: c.req.InputPath, Err: fmt.Errorf("%s not found", sst.DictionaryFile)}
	}
	if labels == nil {
		return &dataset.ParseError{Path: c.req.InputPath, Err: fmt.Errorf("%s not found", sst.LabelsFile)}
	}
	reader, err := sst.NewReader(bytes.NewReader(dictionary.data), bytes.NewReader(labels.data), c.req.InputPath)
	if err != nil {
		return err
	}
	for {
		phrase, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		doc, err := sst.Normalize(phrase)
		if err != nil {
			return fmt.Errorf("%s: %w", c.req.InputPath, err)
		}
		if doc == nil {
			continue
		}
		if err := c.insert(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func matchExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	for _, want := range exts {
		if ext == want {
			return true
		}
	}
	return false
}
