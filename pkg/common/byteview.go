package common

import "MarketForge/pkg/json"

// ByteView 只读字节视图，作为LRU缓存中的值
type ByteView struct {
	b []byte
}

// NewByteView 创建字节视图（拷贝输入）
func NewByteView(b []byte) ByteView {
	return ByteView{b: cloneBytes(b)}
}

// Len 实现lru.Value
func (v ByteView) Len() int {
	return len(v.b)
}

// ByteSlice 返回拷贝
func (v ByteView) ByteSlice() []byte {
	return cloneBytes(v.b)
}

func (v ByteView) String() string {
	return string(v.b)
}

// MarshalJSON 快照落盘时按字符串保存
func (v ByteView) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v.b))
}

// UnmarshalJSON 从快照恢复
func (v *ByteView) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v.b = []byte(s)
	return nil
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
