// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/triage/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalDocument serializes a Document to bytes.
// Metadata keys are written in sorted order so equal documents encode identically.
func MarshalDocument(doc *core.Document) []byte {
	keys := sortedKeys(doc.Metadata)

	size := ord.String.Size(doc.ID) +
		ord.String.Size(doc.Text) +
		ord.String.Size(doc.Source) +
		varint.Int.Size(len(keys))
	for _, k := range keys {
		size += ord.String.Size(k) + ord.String.Size(doc.Metadata[k])
	}
	size += varint.Int.Size(len(doc.Vector))
	for _, v := range doc.Vector {
		size += raw.Float32.Size(v)
	}
	size += timeSize(doc.InsertedAt) + timeSize(doc.UpdatedAt)

	buf := make([]byte, size)
	n := ord.String.Marshal(doc.ID, buf)
	n += ord.String.Marshal(doc.Text, buf[n:])
	n += ord.String.Marshal(doc.Source, buf[n:])
	n += varint.Int.Marshal(len(keys), buf[n:])
	for _, k := range keys {
		n += ord.String.Marshal(k, buf[n:])
		n += ord.String.Marshal(doc.Metadata[k], buf[n:])
	}
	n += varint.Int.Marshal(len(doc.Vector), buf[n:])
	for _, v := range doc.Vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	n += marshalTime(doc.InsertedAt, buf[n:])
	marshalTime(doc.UpdatedAt, buf[n:])
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	r := &reader{data: data}
	doc := &core.Document{
		ID:     read(r, ord.String.Unmarshal),
		Text:   read(r, ord.String.Unmarshal),
		Source: read(r, ord.String.Unmarshal),
	}

	if count := r.length(2); count > 0 {
		doc.Metadata = make(map[string]string, count)
		for i := 0; i < count && r.err == nil; i++ {
			k := read(r, ord.String.Unmarshal)
			doc.Metadata[k] = read(r, ord.String.Unmarshal)
		}
	}

	if count := r.length(4); count > 0 {
		doc.Vector = make([]float32, count)
		for i := 0; i < count && r.err == nil; i++ {
			doc.Vector[i] = read(r, raw.Float32.Unmarshal)
		}
	}

	doc.InsertedAt = r.time()
	doc.UpdatedAt = r.time()

	if r.err != nil {
		return nil, r.err
	}
	return doc, nil
}

// MarshalCollectionInfo serializes a CollectionInfo to bytes.
func MarshalCollectionInfo(info *core.CollectionInfo) []byte {
	size := ord.String.Size(info.Name) +
		ord.String.Size(info.Embedder) +
		varint.Int.Size(info.Dimension) +
		timeSize(info.CreatedAt)

	buf := make([]byte, size)
	n := ord.String.Marshal(info.Name, buf)
	n += ord.String.Marshal(info.Embedder, buf[n:])
	n += varint.Int.Marshal(info.Dimension, buf[n:])
	marshalTime(info.CreatedAt, buf[n:])
	return buf
}

// UnmarshalCollectionInfo deserializes a CollectionInfo from bytes.
func UnmarshalCollectionInfo(data []byte) (*core.CollectionInfo, error) {
	r := &reader{data: data}
	info := &core.CollectionInfo{
		Name:      read(r, ord.String.Unmarshal),
		Embedder:  read(r, ord.String.Unmarshal),
		Dimension: read(r, varint.Int.Unmarshal),
		CreatedAt: r.time(),
	}
	if r.err != nil {
		return nil, r.err
	}
	if info.Dimension < 0 {
		return nil, fmt.Errorf("%w: negative dimension %d", ErrSerializationFailed, info.Dimension)
	}
	return info, nil
}

// reader walks a byte slice, remembering the first decode error.
type reader struct {
	data []byte
	off  int
	err  error
}

func read[T any](r *reader, unmarshal func([]byte) (T, int, error)) T {
	var zero T
	if r.err != nil {
		return zero
	}
	v, n, err := unmarshal(r.data[r.off:])
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		return zero
	}
	r.off += n
	return v
}

// length reads an element count and checks it against the bytes left,
// given the minimum encoded size of one element.
func (r *reader) length(minElemSize int) int {
	count := read(r, varint.Int.Unmarshal)
	if r.err != nil {
		return 0
	}
	if count < 0 || count*minElemSize > len(r.data)-r.off {
		r.err = fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrTruncatedData, count, len(r.data)-r.off)
		return 0
	}
	return count
}

// time reads a timestamp stored as Unix microseconds. Zero means unset.
func (r *reader) time() time.Time {
	micros := read(r, varint.Int64.Unmarshal)
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros)
}

func timeSize(t time.Time) int {
	return varint.Int64.Size(timeMicros(t))
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(timeMicros(t), bs)
}

func timeMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
