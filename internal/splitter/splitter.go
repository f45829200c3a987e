package splitter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"MarketForge/internal/csvfile"
	"MarketForge/pkg/hash"

	"github.com/sirupsen/logrus"
)

// replicas 每个分片的虚拟节点数
const replicas = 50

// Result 拆分结果，Parts[i]为第i个输出文件的数据行数
type Result struct {
	Total int
	Files []string
	Parts []int
}

// SplitHalf 前 n/2 行写入out1，其余写入out2，两个文件都带表头
// 输入完全为空时生成两个空文件
func SplitHalf(in, out1, out2 string) (*Result, error) {
	tbl, err := csvfile.Read(in)
	if err != nil {
		return nil, err
	}

	n := tbl.Len()
	mid := n / 2
	logrus.Infof("[Splitter] %s: %d records, splitting at %d", in, n, mid)

	if err := csvfile.Write(out1, tbl.Header, tbl.Rows[:mid]); err != nil {
		return nil, fmt.Errorf("write %s: %w", out1, err)
	}
	if err := csvfile.Write(out2, tbl.Header, tbl.Rows[mid:]); err != nil {
		return nil, fmt.Errorf("write %s: %w", out2, err)
	}

	res := &Result{Total: n, Files: []string{out1, out2}, Parts: []int{mid, n - mid}}
	logResult(res)
	return res, nil
}

// SplitShards 按键列把行分配到shards个文件，同一个键只会出现在一个分片中
// pattern 含 %d 时按分片号(从1开始)格式化，否则在扩展名前追加 _shardN
func SplitShards(in, pattern, column string, shards int) (*Result, error) {
	if shards <= 0 {
		return nil, fmt.Errorf("shards must be positive, got %d", shards)
	}

	tbl, err := csvfile.Read(in)
	if err != nil {
		return nil, err
	}
	if err := tbl.Require(column); err != nil {
		return nil, err
	}

	ring := hash.NewRing(replicas, nil)
	files := make([]string, shards)
	writers := make(map[string]*csvfile.Writer, shards)
	index := make(map[string]int, shards)
	for i := 0; i < shards; i++ {
		files[i] = ShardPath(pattern, i+1)
		w, err := csvfile.Create(files[i], tbl.Header)
		if err != nil {
			closeAll(writers)
			return nil, fmt.Errorf("create %s: %w", files[i], err)
		}
		node := "shard-" + strconv.Itoa(i+1)
		ring.Add(node)
		writers[node] = w
		index[node] = i
	}

	for _, row := range tbl.Rows {
		node := ring.Get(tbl.Value(row, column))
		if err := writers[node].Write(row); err != nil {
			closeAll(writers)
			return nil, fmt.Errorf("write %s: %w", files[index[node]], err)
		}
	}

	parts := make([]int, shards)
	for node, w := range writers {
		parts[index[node]] = w.Rows()
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close %s: %w", files[index[node]], err)
		}
	}

	res := &Result{Total: tbl.Len(), Files: files, Parts: parts}
	logResult(res)
	return res, nil
}

// ShardPath 生成第i个分片的文件名
func ShardPath(pattern string, i int) string {
	if strings.Contains(pattern, "%d") {
		return fmt.Sprintf(pattern, i)
	}
	ext := filepath.Ext(pattern)
	return strings.TrimSuffix(pattern, ext) + "_shard" + strconv.Itoa(i) + ext
}

func closeAll(writers map[string]*csvfile.Writer) {
	for _, w := range writers {
		w.Close()
	}
}

func logResult(res *Result) {
	for i, f := range res.Files {
		logrus.Infof("[Splitter] part %d: %d records -> %s", i+1, res.Parts[i], f)
	}
}
