package parser

import (
	"archive/zip"
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encode serializes a client as a raw signature-prefixed payload, the exact
// inverse of Decode. Zero-valued fields are omitted, as a wire-format writer
// would. Used for fixture generation and round-trip testing; the dashboard
// itself never writes portfolio files.
func Encode(c *Client) []byte {
	b := append([]byte(nil), Signature...)
	return appendClient(b, c)
}

// EncodeArchive serializes a client wrapped in a zip archive under the fixed
// inner entry name, matching the archive layout produced by desktop exports.
func EncodeArchive(c *Client) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(ArchiveEntryName)
	if err != nil {
		return nil, fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := w.Write(Encode(c)); err != nil {
		return nil, fmt.Errorf("write archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendClient(b []byte, c *Client) []byte {
	b = appendVarint(b, 1, uint64(c.Version))
	b = appendString(b, 2, c.BaseCurrency)
	for _, s := range c.Securities {
		b = appendMessage(b, 3, appendSecurity(nil, s))
	}
	for _, a := range c.Accounts {
		b = appendMessage(b, 4, appendAccount(nil, a))
	}
	for _, p := range c.Portfolios {
		b = appendMessage(b, 5, appendPortfolio(nil, p))
	}
	for _, t := range c.Transactions {
		b = appendMessage(b, 6, appendTransaction(nil, t))
	}
	for _, t := range c.Taxonomies {
		b = appendMessage(b, 7, appendTaxonomy(nil, t))
	}
	return b
}

func appendSecurity(b []byte, s Security) []byte {
	b = appendString(b, 1, s.UUID)
	b = appendString(b, 2, s.Name)
	b = appendString(b, 3, s.ISIN)
	b = appendString(b, 4, s.Ticker)
	b = appendString(b, 5, s.Currency)
	for _, p := range s.Prices {
		var msg []byte
		msg = appendVarint(msg, 1, uint64(p.Date))
		msg = appendVarint(msg, 2, uint64(p.Close))
		b = appendMessage(b, 6, msg)
	}
	return b
}

func appendAccount(b []byte, a Account) []byte {
	b = appendString(b, 1, a.UUID)
	b = appendString(b, 2, a.Name)
	b = appendString(b, 3, a.Currency)
	return b
}

func appendPortfolio(b []byte, p Portfolio) []byte {
	b = appendString(b, 1, p.UUID)
	b = appendString(b, 2, p.Name)
	b = appendString(b, 3, p.ReferenceAccount)
	return b
}

func appendTransaction(b []byte, t Transaction) []byte {
	b = appendString(b, 1, t.UUID)
	b = appendVarint(b, 2, uint64(t.Type))
	b = appendString(b, 3, t.Account)
	b = appendString(b, 4, t.Portfolio)
	b = appendString(b, 5, t.Security)
	if t.Date.Seconds != 0 {
		b = appendMessage(b, 6, appendVarint(nil, 1, uint64(t.Date.Seconds)))
	}
	b = appendString(b, 7, t.Currency)
	b = appendVarint(b, 8, uint64(t.Amount))
	b = appendVarint(b, 9, uint64(t.Shares))
	b = appendString(b, 10, t.Note)
	return b
}

func appendTaxonomy(b []byte, t Taxonomy) []byte {
	b = appendString(b, 1, t.Name)
	for _, c := range t.Classifications {
		var msg []byte
		msg = appendString(msg, 1, c.Name)
		msg = appendString(msg, 2, c.Color)
		for _, a := range c.Assignments {
			msg = appendMessage(msg, 3, appendString(nil, 1, a.InvestmentVehicle))
		}
		b = appendMessage(b, 2, msg)
	}
	return b
}
