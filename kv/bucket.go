// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

// Key makes the full key in the bucket.
func (b Bucket) Key(key []byte) []byte {
	return append([]byte(b), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(dst Putter) Putter {
	return &bucketPutter{b, dst}
}

type bucketGetter struct {
	bucket Bucket
	src    Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	return g.src.Get(g.bucket.Key(key))
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	return g.src.Has(g.bucket.Key(key))
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	bucket Bucket
	dst    Putter
}

func (p *bucketPutter) Put(key, value []byte) error {
	return p.dst.Put(p.bucket.Key(key), value)
}

func (p *bucketPutter) Delete(key []byte) error {
	return p.dst.Delete(p.bucket.Key(key))
}
