package client

// BytesItem is the simplest Cacheable: a key paired with a raw byte
// value, good enough for the CLI and for anyone who doesn't need a
// richer domain type.
type BytesItem struct {
	key   string
	value []byte
}

// NewBytesItem wraps key and value as a Cacheable.
func NewBytesItem(key string, value []byte) BytesItem {
	return BytesItem{key: key, value: value}
}

func (b BytesItem) Key() string   { return b.key }
func (b BytesItem) Value() []byte { return b.value }

// ValueFromBytes returns a new BytesItem with the same key and data as
// its value.
func (b BytesItem) ValueFromBytes(data []byte) Cacheable {
	return BytesItem{key: b.key, value: data}
}
