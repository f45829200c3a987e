package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingColumn 必需列不存在
var ErrMissingColumn = errors.New("missing column")

const utf8BOM = "\ufeff"

// Table 带表头的整表数据
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Read 读取整个CSV文件，首行为表头
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// ReadFrom 从reader读取
func ReadFrom(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Table{}
	if len(records) == 0 {
		t.buildIndex()
		return t, nil
	}

	t.Header = records[0]
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], utf8BOM)
	}
	t.Rows = records[1:]
	t.buildIndex()
	return t, nil
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		t.index[strings.TrimSpace(name)] = i
	}
}

// Len 数据行数（不含表头）
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column 返回列下标
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Require 校验列存在
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return nil
}

// Value 取某行某列，列不存在返回空串
func (t *Table) Value(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Write 整表写出；表头和数据都为空时生成空文件
func Write(path string, header []string, rows [][]string) error {
	w, err := Create(path, header)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// Writer 流式CSV写入
type Writer struct {
	f    *os.File
	w    *csv.Writer
	rows int
}

// Create 创建文件并写入表头，必要时创建目录
func Create(path string, header []string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &Writer{f: f, w: csv.NewWriter(f)}
	if len(header) > 0 {
		if err := w.w.Write(header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return w, nil
}

// Write 写一行
func (w *Writer) Write(row []string) error {
	if err := w.w.Write(row); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows 已写入的数据行数
func (w *Writer) Rows() int {
	return w.rows
}

// Close 刷新并关闭
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
