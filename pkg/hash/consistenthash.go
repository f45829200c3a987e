package hash

import (
	"hash/crc32"
	"sort"
	"strconv"
)

// Hash 哈希函数类型
type Hash func(data []byte) uint32

// Ring 一致性哈希环，用于把行按键值分配到固定的分片
type Ring struct {
	hash     Hash
	replicas int            // 每个分片的虚拟节点数
	points   []int          // 已排序的虚拟节点
	owners   map[int]string // 虚拟节点 -> 分片名
	nodes    []string
}

// NewRing 创建哈希环，fn为空时使用crc32
func NewRing(replicas int, fn Hash) *Ring {
	if replicas <= 0 {
		replicas = 1
	}
	r := &Ring{
		replicas: replicas,
		hash:     fn,
		owners:   make(map[int]string),
	}
	if r.hash == nil {
		r.hash = crc32.ChecksumIEEE
	}
	return r
}

// Add 添加分片
func (r *Ring) Add(nodes ...string) {
	for _, node := range nodes {
		r.nodes = append(r.nodes, node)
		for i := 0; i < r.replicas; i++ {
			point := int(r.hash([]byte(strconv.Itoa(i) + node)))
			r.points = append(r.points, point)
			r.owners[point] = node
		}
	}
	sort.Ints(r.points)
}

// Get 返回key所属的分片，空环返回空串
func (r *Ring) Get(key string) string {
	if len(r.points) == 0 {
		return ""
	}

	point := int(r.hash([]byte(key)))
	idx := sort.Search(len(r.points), func(i int) bool {
		return r.points[i] >= point
	})

	// 越过最后一个节点时回到环首
	return r.owners[r.points[idx%len(r.points)]]
}

// Nodes 按添加顺序返回全部分片
func (r *Ring) Nodes() []string {
	out := make([]string, len(r.nodes))
	copy(out, r.nodes)
	return out
}
