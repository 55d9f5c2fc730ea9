package benchmark

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed industries.yaml
var embeddedTable []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded benchmark table, loaded once on first use.
// The returned table is shared and must not be modified.
// ⭐ SSOT: 내장 벤치마크 테이블 (불변, 지연 로딩)
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(embeddedTable)
	})
	if defaultErr != nil {
		// 내장 테이블 오류는 빌드 결함
		panic(fmt.Sprintf("benchmark: embedded table invalid: %v", defaultErr))
	}
	return defaultTable
}

// Load reads a YAML benchmark table from path, or returns Default() when path is empty
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark file: %w", err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("benchmark file %s: %w", path, err)
	}
	return table, nil
}

// Parse decodes and validates a YAML benchmark table
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Parse(data []byte) (*Table, error) {
	var table Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, err
	}

	if err := Validate(&table); err != nil {
		return nil, err
	}

	return &table, nil
}

// Hash generates SHA256 hash from the table (canonical JSON)
func Hash(table *Table) (string, error) {
	jsonBytes, err := json.Marshal(table)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
