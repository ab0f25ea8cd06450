package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// Signature prefixes every raw payload.
var Signature = []byte("PPPBV1")

// ArchiveEntryName is the fixed name of the inner file when a portfolio is
// wrapped in a zip archive.
const ArchiveEntryName = "data.portfolio"

var archiveMagic = []byte("PK")

// Decode turns the raw bytes of a portfolio file into a Client record tree.
// It checks for an archive wrapper first, then for the raw signature; anything
// else fails with an UnrecognizedFormatError naming the file. Decode never
// leaves partial state behind: on error the returned Client is nil.
func Decode(filename string, data []byte) (*Client, error) {
	switch {
	case bytes.HasPrefix(data, archiveMagic):
		inner, err := unwrapArchive(data)
		if err != nil {
			return nil, &UnrecognizedFormatError{Filename: filename}
		}
		return decodePayload(filename, inner)
	case bytes.HasPrefix(data, Signature):
		return decodePayload(filename, data)
	default:
		return nil, &UnrecognizedFormatError{Filename: filename}
	}
}

// unwrapArchive extracts the fixed-name inner file from a zip-wrapped portfolio.
func unwrapArchive(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != ArchiveEntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ArchiveEntryName, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("archive has no %s entry", ArchiveEntryName)
}

func decodePayload(filename string, data []byte) (*Client, error) {
	if !bytes.HasPrefix(data, Signature) {
		return nil, &UnrecognizedFormatError{Filename: filename}
	}
	c, err := decodeClient(data[len(Signature):])
	if err != nil {
		return nil, &MalformedRecordError{Filename: filename, Reason: err.Error()}
	}
	return c, nil
}

// fieldReader walks the tagged fields of one wire-format message. It remembers
// the first parse error; callers check err once after the field loop.
type fieldReader struct {
	buf []byte
	err error
}

// next consumes the next field tag. It returns false at end of message or on error.
func (r *fieldReader) next() (protowire.Number, protowire.Type, bool) {
	if r.err != nil || len(r.buf) == 0 {
		return 0, 0, false
	}
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return 0, 0, false
	}
	r.buf = r.buf[n:]
	return num, typ, true
}

func (r *fieldReader) varint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *fieldReader) bytes() []byte {
	if r.err != nil {
		return nil
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return nil
	}
	r.buf = r.buf[n:]
	return v
}

// skip discards a field of any wire type. Unknown fields are tolerated for
// forward compatibility; only structurally invalid input is an error.
func (r *fieldReader) skip(num protowire.Number, typ protowire.Type) {
	if r.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(num, typ, r.buf)
	if n < 0 {
		r.err = protowire.ParseError(n)
		return
	}
	r.buf = r.buf[n:]
}

func decodeClient(payload []byte) (*Client, error) {
	r := &fieldReader{buf: payload}
	c := &Client{}
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.VarintType:
			c.Version = int32(r.varint())
		case num == 2 && typ == protowire.BytesType:
			c.BaseCurrency = string(r.bytes())
		case num == 3 && typ == protowire.BytesType:
			s, err := decodeSecurity(r.bytes())
			if err != nil {
				return nil, err
			}
			c.Securities = append(c.Securities, s)
		case num == 4 && typ == protowire.BytesType:
			a, err := decodeAccount(r.bytes())
			if err != nil {
				return nil, err
			}
			c.Accounts = append(c.Accounts, a)
		case num == 5 && typ == protowire.BytesType:
			p, err := decodePortfolio(r.bytes())
			if err != nil {
				return nil, err
			}
			c.Portfolios = append(c.Portfolios, p)
		case num == 6 && typ == protowire.BytesType:
			t, err := decodeTransaction(r.bytes())
			if err != nil {
				return nil, err
			}
			c.Transactions = append(c.Transactions, t)
		case num == 7 && typ == protowire.BytesType:
			t, err := decodeTaxonomy(r.bytes())
			if err != nil {
				return nil, err
			}
			c.Taxonomies = append(c.Taxonomies, t)
		default:
			r.skip(num, typ)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func decodeSecurity(raw []byte) (Security, error) {
	r := &fieldReader{buf: raw}
	var s Security
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			s.UUID = string(r.bytes())
		case num == 2 && typ == protowire.BytesType:
			s.Name = string(r.bytes())
		case num == 3 && typ == protowire.BytesType:
			s.ISIN = string(r.bytes())
		case num == 4 && typ == protowire.BytesType:
			s.Ticker = string(r.bytes())
		case num == 5 && typ == protowire.BytesType:
			s.Currency = string(r.bytes())
		case num == 6 && typ == protowire.BytesType:
			p, err := decodeHistoricalPrice(r.bytes())
			if err != nil {
				return Security{}, err
			}
			s.Prices = append(s.Prices, p)
		default:
			r.skip(num, typ)
		}
	}
	return s, r.err
}

func decodeHistoricalPrice(raw []byte) (HistoricalPrice, error) {
	r := &fieldReader{buf: raw}
	var p HistoricalPrice
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.VarintType:
			p.Date = int32(r.varint())
		case num == 2 && typ == protowire.VarintType:
			p.Close = int64(r.varint())
		default:
			r.skip(num, typ)
		}
	}
	return p, r.err
}

func decodeAccount(raw []byte) (Account, error) {
	r := &fieldReader{buf: raw}
	var a Account
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			a.UUID = string(r.bytes())
		case num == 2 && typ == protowire.BytesType:
			a.Name = string(r.bytes())
		case num == 3 && typ == protowire.BytesType:
			a.Currency = string(r.bytes())
		default:
			r.skip(num, typ)
		}
	}
	return a, r.err
}

func decodePortfolio(raw []byte) (Portfolio, error) {
	r := &fieldReader{buf: raw}
	var p Portfolio
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			p.UUID = string(r.bytes())
		case num == 2 && typ == protowire.BytesType:
			p.Name = string(r.bytes())
		case num == 3 && typ == protowire.BytesType:
			p.ReferenceAccount = string(r.bytes())
		default:
			r.skip(num, typ)
		}
	}
	return p, r.err
}

func decodeTimestamp(raw []byte) (Timestamp, error) {
	r := &fieldReader{buf: raw}
	var ts Timestamp
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.VarintType:
			ts.Seconds = int64(r.varint())
		default:
			r.skip(num, typ)
		}
	}
	return ts, r.err
}

func decodeTransaction(raw []byte) (Transaction, error) {
	r := &fieldReader{buf: raw}
	var t Transaction
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			t.UUID = string(r.bytes())
		case num == 2 && typ == protowire.VarintType:
			t.Type = int32(r.varint())
		case num == 3 && typ == protowire.BytesType:
			t.Account = string(r.bytes())
		case num == 4 && typ == protowire.BytesType:
			t.Portfolio = string(r.bytes())
		case num == 5 && typ == protowire.BytesType:
			t.Security = string(r.bytes())
		case num == 6 && typ == protowire.BytesType:
			ts, err := decodeTimestamp(r.bytes())
			if err != nil {
				return Transaction{}, err
			}
			t.Date = ts
		case num == 7 && typ == protowire.BytesType:
			t.Currency = string(r.bytes())
		case num == 8 && typ == protowire.VarintType:
			t.Amount = int64(r.varint())
		case num == 9 && typ == protowire.VarintType:
			t.Shares = int64(r.varint())
		case num == 10 && typ == protowire.BytesType:
			t.Note = string(r.bytes())
		default:
			r.skip(num, typ)
		}
	}
	return t, r.err
}

func decodeTaxonomy(raw []byte) (Taxonomy, error) {
	r := &fieldReader{buf: raw}
	var t Taxonomy
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			t.Name = string(r.bytes())
		case num == 2 && typ == protowire.BytesType:
			c, err := decodeClassification(r.bytes())
			if err != nil {
				return Taxonomy{}, err
			}
			t.Classifications = append(t.Classifications, c)
		default:
			r.skip(num, typ)
		}
	}
	return t, r.err
}

func decodeClassification(raw []byte) (Classification, error) {
	r := &fieldReader{buf: raw}
	var c Classification
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			c.Name = string(r.bytes())
		case num == 2 && typ == protowire.BytesType:
			c.Color = string(r.bytes())
		case num == 3 && typ == protowire.BytesType:
			a, err := decodeAssignment(r.bytes())
			if err != nil {
				return Classification{}, err
			}
			c.Assignments = append(c.Assignments, a)
		default:
			r.skip(num, typ)
		}
	}
	return c, r.err
}

func decodeAssignment(raw []byte) (Assignment, error) {
	r := &fieldReader{buf: raw}
	var a Assignment
	for {
		num, typ, ok := r.next()
		if !ok {
			break
		}
		switch {
		case num == 1 && typ == protowire.BytesType:
			a.InvestmentVehicle = string(r.bytes())
		default:
			r.skip(num, typ)
		}
	}
	return a, r.err
}
