package dataset

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field is a canonical column of the sales ledger.
type Field int

const (
	FieldDate Field = iota
	FieldSubCategory
	FieldCategory
	FieldBrand
	FieldDescription
	FieldPhone
	FieldCustomer
	FieldSales
	FieldCost
)

var fieldNames = map[Field]string{
	FieldDate:        "date",
	FieldSubCategory: "sub_category",
	FieldCategory:    "category",
	FieldBrand:       "brand",
	FieldDescription: "description",
	FieldPhone:       "phone",
	FieldCustomer:    "customer_name",
	FieldSales:       "sales",
	FieldCost:        "cost",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "unknown"
}

// Column lists the header fragments that identify a field.
type Column struct {
	Field     Field
	Fragments []string
}

// DefaultColumns is ordered so that more specific fragments win: a
// "sub_category" header must not land in category, and "고객연락처" is a
// phone column rather than a customer name.
var DefaultColumns = []Column{
	{FieldDate, []string{"date", "날짜", "접수일", "일자"}},
	{FieldSubCategory, []string{"sub_category", "subcategory", "sub category", "채널", "channel", "구분"}},
	{FieldCategory, []string{"category", "카테고리", "분류"}},
	{FieldBrand, []string{"brand", "브랜드"}},
	{FieldDescription, []string{"description", "내용", "품명", "비고"}},
	{FieldPhone, []string{"phone", "mobile", "전화", "연락처", "휴대폰"}},
	{FieldCustomer, []string{"customer", "고객", "성함", "이름", "name"}},
	{FieldSales, []string{"sales", "매출", "금액", "revenue"}},
	{FieldCost, []string{"cost", "비용", "지출", "외주비"}},
}

// Mapping is the header index per field; fields without a column are absent.
type Mapping map[Field]int

// MapHeader assigns each header cell to at most one field and each field to
// the first header that matches it.
func MapHeader(header []string, columns []Column) Mapping {
	m := Mapping{}
	for i, h := range header {
		name := foldHeader(h)
		if name == "" {
			continue
		}
	columns:
		for _, c := range columns {
			if _, taken := m[c.Field]; taken {
				continue
			}
			for _, frag := range c.Fragments {
				if strings.Contains(name, frag) {
					m[c.Field] = i
					break columns
				}
			}
		}
	}
	return m
}

// Headers reports which header text was picked for each field.
func (m Mapping) Headers(header []string) map[string]string {
	out := make(map[string]string, len(m))
	for f, i := range m {
		if i < len(header) {
			out[f.String()] = strings.TrimSpace(header[i])
		}
	}
	return out
}

func foldHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.Trim(strings.TrimSpace(h), `"`)
	return norm.NFC.String(strings.ToLower(h))
}
