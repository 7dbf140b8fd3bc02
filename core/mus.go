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

package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted types. Field order is the wire format;
// changing it breaks existing databases.

var (
	vectorMUS   = ord.NewSliceSer[float32](raw.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)

	// FingerprintMUS serializes a Fingerprint.
	FingerprintMUS = fingerprintMUS{}
	// IngestionRecordMUS serializes an IngestionRecord.
	IngestionRecordMUS = ingestionRecordMUS{}
)

type fingerprintMUS struct{}

func (fingerprintMUS) Marshal(f Fingerprint, bs []byte) int {
	return ord.String.Marshal(string(f), bs)
}

func (fingerprintMUS) Unmarshal(bs []byte) (Fingerprint, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return Fingerprint(s), n, err
}

func (fingerprintMUS) Size(f Fingerprint) int {
	return ord.String.Size(string(f))
}

type ingestionRecordMUS struct{}

func (ingestionRecordMUS) Marshal(r IngestionRecord, bs []byte) (n int) {
	n = ord.String.Marshal(string(r.Fingerprint), bs)
	n += ord.String.Marshal(r.Tier, bs[n:])
	n += ord.String.Marshal(r.Collection, bs[n:])
	n += ord.String.Marshal(r.Text, bs[n:])
	n += vectorMUS.Marshal(r.Vector, bs[n:])
	n += metadataMUS.Marshal(r.Metadata, bs[n:])
	n += varint.Int64.Marshal(r.IngestedAt.UTC().UnixMicro(), bs[n:])
	return n
}

func (ingestionRecordMUS) Unmarshal(bs []byte) (r IngestionRecord, n int, err error) {
	var (
		n1 int
		fp string
	)
	fp, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Fingerprint = Fingerprint(fp)
	r.Tier, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Collection, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.IngestedAt = time.UnixMicro(micros).UTC()
	return
}

func (ingestionRecordMUS) Size(r IngestionRecord) (size int) {
	size = ord.String.Size(string(r.Fingerprint))
	size += ord.String.Size(r.Tier)
	size += ord.String.Size(r.Collection)
	size += ord.String.Size(r.Text)
	size += vectorMUS.Size(r.Vector)
	size += metadataMUS.Size(r.Metadata)
	size += varint.Int64.Size(r.IngestedAt.UTC().UnixMicro())
	return size
}
