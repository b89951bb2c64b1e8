package document

import "unicode/utf8"

// Record is one loaded document held in memory for prompt assembly.
type Record struct {
	Name      string
	Text      string
	CharCount int
	SizeKB    float64
}

// NewRecord measures text in characters, not bytes.
func NewRecord(name, text string) Record {
	n := utf8.RuneCountInString(text)
	return Record{
		Name:      name,
		Text:      text,
		CharCount: n,
		SizeKB:    float64(n) / 1024,
	}
}

// Collection maps document name to Record and remembers insertion order.
type Collection struct {
	order   []string
	records map[string]Record
}

func NewCollection() *Collection {
	return &Collection{records: make(map[string]Record)}
}

// Add inserts or replaces a record. A replaced record keeps its position.
func (c *Collection) Add(r Record) {
	if _, ok := c.records[r.Name]; !ok {
		c.order = append(c.order, r.Name)
	}
	c.records[r.Name] = r
}

func (c *Collection) Get(name string) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	r, ok := c.records[name]
	return r, ok
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Names returns document names in insertion order.
func (c *Collection) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Records returns records in insertion order.
func (c *Collection) Records() []Record {
	if c == nil {
		return nil
	}
	out := make([]Record, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.records[name])
	}
	return out
}

func (c *Collection) TotalChars() int {
	total := 0
	for _, r := range c.Records() {
		total += r.CharCount
	}
	return total
}

func (c *Collection) TotalKB() float64 {
	var total float64
	for _, r := range c.Records() {
		total += r.SizeKB
	}
	return total
}
