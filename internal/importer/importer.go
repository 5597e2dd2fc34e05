// Package importer loads transaction sources from CSV files dropped into <root>/import/.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Parser converts a CSV file into transaction sources of one kind.
type Parser interface {
	Parse(r io.Reader) ([]model.Source, error)
	Kind() model.SourceType
}

// Registry holds parsers keyed by the source kind they produce.
type Registry struct {
	parsers map[model.SourceType]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[model.SourceType]Parser)}
}

// Register adds a parser. Panics on duplicate kind.
func (r *Registry) Register(p Parser) {
	if _, ok := r.parsers[p.Kind()]; ok {
		panic("duplicate parser kind: " + string(p.Kind()))
	}
	r.parsers[p.Kind()] = p
}

// Get returns the parser for kind, or nil.
func (r *Registry) Get(kind model.SourceType) Parser {
	return r.parsers[kind]
}

// ForFile picks the parser by file name: "sales-april.csv" is parsed as sales,
// "receipts.csv" as receipts, and so on. It returns nil for unrecognized names.
func (r *Registry) ForFile(name string) Parser {
	base := strings.ToLower(filepath.Base(name))
	for _, kind := range model.SourceTypes {
		for _, prefix := range filePrefixes[kind] {
			if strings.HasPrefix(base, prefix) {
				return r.Get(kind)
			}
		}
	}
	return nil
}

var filePrefixes = map[model.SourceType][]string{
	model.SourceSale:     {"sales", "sale"},
	model.SourcePurchase: {"purchases", "purchase"},
	model.SourcePayment:  {"payments", "payment"},
	model.SourceReceipt:  {"receipts", "receipt"},
	model.SourceExpense:  {"expenses", "expense"},
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SalesParser{})
	r.Register(PurchasesParser{})
	r.Register(PaymentsParser{})
	r.Register(ReceiptsParser{})
	r.Register(ExpensesParser{})
	return r
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/, sorted by name.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// AddFunc stores one parsed record and returns it with its assigned id.
type AddFunc func(model.Source) (model.Source, error)

// FileResult summarizes one imported file.
type FileResult struct {
	File       string
	Kind       model.SourceType
	Records    []string
	Duplicates int
	Skipped    bool
}

// Run imports every CSV in <root>/import/. Each file is parsed completely before any of its
// rows are stored; a file that fails to parse is left in place and reported. A file whose
// name matches no parser is skipped. Fully stored files move to import/processed/.
//
// existing holds the records already stored. A row with the same kind, date, party and
// amount as one of them is skipped, so re-running an import that failed part way through a
// file does not record its earlier rows twice. Identical rows within one file are matched
// one for one: a file with two such rows against one stored record imports the second.
func Run(root string, reg *Registry, add AddFunc, existing []model.Source, log *zap.Logger) ([]FileResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	files, err := Scan(root)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]int, len(existing))
	for _, src := range existing {
		stored[fingerprint(src)]++
	}

	var results []FileResult
	for _, f := range files {
		p := reg.ForFile(f.Name)
		if p == nil {
			log.Warn("no parser for import file", zap.String("file", f.Name))
			results = append(results, FileResult{File: f.Name, Skipped: true})
			continue
		}

		srcs, err := parseFile(f.Path, p)
		if err != nil {
			return results, fmt.Errorf("%s: %w", f.Name, err)
		}

		res := FileResult{File: f.Name, Kind: p.Kind()}
		seen := make(map[string]int)
		for i, src := range srcs {
			fp := fingerprint(src)
			seen[fp]++
			if seen[fp] <= stored[fp] {
				log.Warn("skipping row already recorded", zap.String("file", f.Name), zap.Int("row", i+2))
				res.Duplicates++
				continue
			}
			out, err := add(src)
			if err != nil {
				return results, fmt.Errorf("%s row %d: %w", f.Name, i+2, err)
			}
			res.Records = append(res.Records, out.SourceID())
		}

		if err := MarkProcessed(root, f.Name); err != nil {
			return results, err
		}
		log.Info("imported file", zap.String("file", f.Name), zap.String("kind", string(p.Kind())), zap.Int("records", len(res.Records)), zap.Int("duplicates", res.Duplicates))
		results = append(results, res)
	}
	return results, nil
}

// fingerprint identifies a row by kind, date, party and amount.
func fingerprint(src model.Source) string {
	var party string
	var amount decimal.Decimal
	switch s := src.(type) {
	case model.Sale:
		party, amount = s.CustomerID, s.Total()
	case model.Purchase:
		party, amount = s.SupplierID, s.Total()
	case model.Payment:
		party, amount = s.PartyID, s.Amount
	case model.Receipt:
		party, amount = s.PartyID, s.Amount
	case model.ManualExpense:
		party, amount = s.Category, s.Amount
	}
	return strings.Join([]string{string(src.Kind()), src.SourceDate(), party, amount.StringFixed(2)}, "|")
}

func parseFile(path string, p Parser) ([]model.Source, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening: %w", err)
	}
	defer fh.Close()
	return p.Parse(fh)
}
