package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw is one article object exactly as the listing service returned it.
// Nothing about its shape is guaranteed; Normalizer decodes it defensively.
type Raw json.RawMessage

// MarshalJSON keeps Raw embeddable in JSON documents.
func (r Raw) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON copies the raw bytes.
func (r *Raw) UnmarshalJSON(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}

// article is the subset of upstream fields the normalizer reads.
// Absent fields keep their zero value.
type article struct {
	ArticleNo   text     `json:"atclNo"`
	Name        string   `json:"atclNm"`
	Location    string   `json:"cortarName"`
	TypeLabel   string   `json:"rletTpNm"`
	Area1       number   `json:"spc1"`
	Area2       number   `json:"spc2"`
	Price       number   `json:"prc"`
	DealLabel   string   `json:"tradTpNm"`
	Rent        number   `json:"rentPrc"`
	Floor       text     `json:"flrInfo"`
	BuildYear   text     `json:"bildYear"`
	Description string   `json:"atclFetrDesc"`
	Tags        []string `json:"tagList"`
}

func decodeArticle(raw Raw) (article, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return article{}, fmt.Errorf("article is not a JSON object")
	}
	var a article
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return article{}, fmt.Errorf("decode article: %w", err)
	}
	return a, nil
}

// number accepts a JSON number, a numeric string ("1,200" allowed), or null.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("decode numeric string: %w", err)
		}
		s = strings.ReplaceAll(strings.TrimSpace(str), ",", "")
		if s == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %s", string(b))
	}
	*n = number(v)
	return nil
}

// text accepts a JSON string, a JSON number (kept verbatim), or null.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("decode string: %w", err)
		}
		*t = text(str)
		return nil
	default:
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("expected string or number, got %s", s)
		}
		*t = text(s)
		return nil
	}
}
