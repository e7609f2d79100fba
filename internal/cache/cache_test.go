package cache

import "testing"

func TestKeyIsDeterministic(t *testing.T) {
	a := Key([]byte("pcm_s16le/1/16000"), []byte("hello"))
	b := Key([]byte("pcm_s16le/1/16000"), []byte("hello"))
	if a != b {
		t.Fatalf("same content produced %s and %s", a, b)
	}
	if c := Key([]byte("pcm_s16le/1/8000"), []byte("hello")); c == a {
		t.Errorf("different parameters share key %s", a)
	}
}

func TestKeySeparatesParts(t *testing.T) {
	if Key([]byte("ab"), []byte("c")) == Key([]byte("a"), []byte("bc")) {
		t.Error("part boundaries are not part of the key")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New[string](2)
	if err != nil {
		t.Fatal(err)
	}
	c.Add("a", "1")
	c.Add("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Add("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after purge = %d", c.Len())
	}
}

func TestNewDefaultsSize(t *testing.T) {
	c, err := New[int](0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < DefaultSize+10; i++ {
		c.Add(Key([]byte{byte(i), byte(i >> 8)}), i)
	}
	if c.Len() != DefaultSize {
		t.Errorf("Len = %d, want %d", c.Len(), DefaultSize)
	}
}
