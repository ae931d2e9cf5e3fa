// Package ingest loads managed-reference YAML dumps into the entity store.
//
// Each input file is parsed into a worker-local partition; partitions are
// merged through a single synchronized step that detects duplicate uids, so
// no shared collection is mutated while workers run.
package ingest

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
	"git.home.luguber.info/inful/apimark/internal/logfields"
	"git.home.luguber.info/inful/apimark/internal/model"
	"git.home.luguber.info/inful/apimark/internal/store"
)

// managedReferenceHeader marks files in the expected dump format; anything
// else under the input root (toc files, assets) is skipped.
var managedReferenceHeader = []byte("### YamlMime:ManagedReference")

// LoadDir parses every managed-reference file under root into a Store.
func LoadDir(root string, concurrency int) (*store.Store, error) {
	files, err := listInputFiles(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apimarkerrors.New(apimarkerrors.CategoryInput, apimarkerrors.SeverityFatal,
			fmt.Sprintf("no managed-reference YAML files found under %s", root))
	}

	results := parseAll(files, concurrency, parseFile)
	partitions := make([]store.Partition, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			return nil, res.Err
		}
		partitions = append(partitions, res.Partition)
	}

	st, err := store.Merge(partitions)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded entity store", logfields.Count(st.Len()), logfields.Path(root))
	return st, nil
}

func listInputFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}
		if strings.EqualFold(d.Name(), "toc.yml") || strings.EqualFold(d.Name(), "toc.yaml") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot read input directory %s", root))
	}
	return files, nil
}

// file-level YAML schema of the managed-reference dump

type fileDoc struct {
	Items []itemDoc `yaml:"items"`
}

type itemDoc struct {
	UID              string         `yaml:"uid"`
	Type             string         `yaml:"type"`
	Name             string         `yaml:"name"`
	FullName         string         `yaml:"fullName"`
	Namespace        string         `yaml:"namespace"`
	Parent           string         `yaml:"parent"`
	Children         []string       `yaml:"children"`
	Summary          string         `yaml:"summary"`
	Assemblies       []string       `yaml:"assemblies"`
	Syntax           *syntaxDoc     `yaml:"syntax"`
	Source           *sourceDoc     `yaml:"source"`
	Inheritance      []string       `yaml:"inheritance"`
	DerivedClasses   []string       `yaml:"derivedClasses"`
	Implements       []string       `yaml:"implements"`
	ExtensionMethods []string       `yaml:"extensionMethods"`
	Exceptions       []exceptionDoc `yaml:"exceptions"`
}

type syntaxDoc struct {
	Content        string     `yaml:"content"`
	Parameters     []paramDoc `yaml:"parameters"`
	TypeParameters []paramDoc `yaml:"typeParameters"`
	Return         *returnDoc `yaml:"return"`
}

type paramDoc struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

type returnDoc struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

type sourceDoc struct {
	Remote    *remoteDoc `yaml:"remote"`
	Path      string     `yaml:"path"`
	StartLine int        `yaml:"startLine"`
}

type remoteDoc struct {
	Path   string `yaml:"path"`
	Branch string `yaml:"branch"`
	Repo   string `yaml:"repo"`
}

type exceptionDoc struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

func parseFile(path string) (store.Partition, error) {
	part := store.Partition{Source: path}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return part, apimarkerrors.Wrap(err, apimarkerrors.CategoryFileSystem, apimarkerrors.SeverityFatal,
			fmt.Sprintf("cannot read input file %s", path))
	}
	if !bytes.HasPrefix(data, managedReferenceHeader) {
		slog.Debug("Skipping non-reference YAML file", logfields.File(path))
		return part, nil
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return part, apimarkerrors.Wrap(err, apimarkerrors.CategoryInput, apimarkerrors.SeverityFatal,
			fmt.Sprintf("invalid YAML in input file %s", path))
	}

	for _, item := range doc.Items {
		e, ok := convertItem(item)
		if !ok {
			slog.Warn("Skipping item with unrecognized kind",
				logfields.UID(item.UID), logfields.Kind(item.Type), logfields.File(path))
			continue
		}
		part.Entities = append(part.Entities, e)
	}
	return part, nil
}

func convertItem(item itemDoc) (*model.Entity, bool) {
	kind, ok := model.ParseKind(item.Type)
	if !ok {
		return nil, false
	}

	e := &model.Entity{
		UID:              item.UID,
		Kind:             kind,
		Name:             item.Name,
		FullName:         item.FullName,
		Namespace:        item.Namespace,
		Parent:           item.Parent,
		Children:         item.Children,
		Assemblies:       item.Assemblies,
		Inheritance:      item.Inheritance,
		DerivedClasses:   item.DerivedClasses,
		Implements:       item.Implements,
		ExtensionMethods: item.ExtensionMethods,
	}

	if strings.TrimSpace(item.Summary) != "" {
		summary := item.Summary
		e.Summary = &summary
	}

	if item.Syntax != nil {
		e.Declaration = item.Syntax.Content
		for _, p := range item.Syntax.Parameters {
			e.Parameters = append(e.Parameters, model.Parameter{ID: p.ID, Type: p.Type, Description: p.Description})
		}
		for _, tp := range item.Syntax.TypeParameters {
			e.TypeParameters = append(e.TypeParameters, model.TypeParameter{ID: tp.ID, Description: tp.Description})
		}
		if item.Syntax.Return != nil {
			e.Returns = &model.ReturnInfo{Type: item.Syntax.Return.Type, Description: item.Syntax.Return.Description}
		}
	}

	if item.Source != nil && item.Source.Remote != nil {
		e.Source = &model.SourceLocation{
			RepoURL:   item.Source.Remote.Repo,
			Branch:    item.Source.Remote.Branch,
			Path:      item.Source.Remote.Path,
			StartLine: item.Source.StartLine,
		}
	}

	for _, ex := range item.Exceptions {
		e.Exceptions = append(e.Exceptions, model.ThrownException{Type: ex.Type, Description: ex.Description})
	}

	return e, true
}
