package s0_data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wonny/caiwu/internal/contracts"
)

// FileSource reads statements from JSON files shaped like contracts.StatementSet.
// path is either one file or a directory holding {code}.json files.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed statement source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchStatements implements contracts.StatementSource
func (s *FileSource) FetchStatements(ctx context.Context, code string) (*contracts.StatementSet, error) {
	code, err := contracts.ValidateCode(code)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := s.path
	if info, err := os.Stat(s.path); err == nil && info.IsDir() {
		file = filepath.Join(s.path, code+".json")
	}

	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", code, contracts.ErrStatementsNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read statements file: %w", err)
	}

	var set contracts.StatementSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("statements file %s: %w", file, err)
	}

	// 단일 파일이 다른 종목이면 없음으로 처리
	if set.Code != "" && contracts.NormalizeCode(set.Code) != code {
		return nil, fmt.Errorf("%s: %w", code, contracts.ErrStatementsNotFound)
	}
	if set.Empty() {
		return nil, fmt.Errorf("%s: %w", code, contracts.ErrStatementsNotFound)
	}

	set.Code = code
	return &set, nil
}
