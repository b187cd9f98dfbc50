package catalog

import (
	"fmt"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestApply_RedMinSix(t *testing.T) {
	snapshot := []Product{
		product(1, "Red Mug", "10"),
		product(2, "Blue Mug", "25"),
		product(3, "Red Cup", "5"),
	}

	got := Apply(snapshot, Criteria{Query: "red", MinPrice: bound("6")})

	if want := []string{"Red Mug"}; !slices.Equal(titles(got), want) {
		t.Fatalf("got=%v want=%v", titles(got), want)
	}
}

func TestApply_EmptyCriteriaKeepsEverythingInOrder(t *testing.T) {
	snapshot := []Product{product(3, "c", "1"), product(1, "a", "2"), product(2, "b", "3")}

	got := Apply(snapshot, Criteria{})
	if !slices.Equal(titles(got), []string{"c", "a", "b"}) {
		t.Fatalf("got=%v", titles(got))
	}
}

func TestApply_BoundsAreInclusive(t *testing.T) {
	snapshot := []Product{product(1, "x", "5"), product(2, "y", "10"), product(3, "z", "10.01")}

	got := Apply(snapshot, Criteria{MinPrice: bound("5"), MaxPrice: bound("10")})
	if !slices.Equal(titles(got), []string{"x", "y"}) {
		t.Fatalf("got=%v", titles(got))
	}
}

func TestApply_UnparseableAndMissingPricesCountAsZero(t *testing.T) {
	noVariants := Product{ID: 9, Title: "Gift card"}
	snapshot := []Product{product(1, "Odd", "n/a"), noVariants, product(2, "Real", "3")}

	got := Apply(snapshot, Criteria{MaxPrice: bound("0")})
	if !slices.Equal(titles(got), []string{"Odd", "Gift card"}) {
		t.Fatalf("got=%v", titles(got))
	}

	got = Apply(snapshot, Criteria{MinPrice: bound("0.01")})
	if !slices.Equal(titles(got), []string{"Real"}) {
		t.Fatalf("got=%v", titles(got))
	}
}

func TestApply_CaseInsensitiveSubstring(t *testing.T) {
	snapshot := []Product{product(1, "Ceramic MUG", "1"), product(2, "Plate", "1")}

	got := Apply(snapshot, Criteria{Query: "mUg"})
	if !slices.Equal(titles(got), []string{"Ceramic MUG"}) {
		t.Fatalf("got=%v", titles(got))
	}
}

// Every result satisfies the predicate, every excluded product fails it,
// and results keep snapshot order.
func TestApply_SubsequenceAndPredicate(t *testing.T) {
	var snapshot []Product
	for i := 0; i < 40; i++ {
		title := fmt.Sprintf("Item %d", i)
		if i%3 == 0 {
			title = fmt.Sprintf("Red item %d", i)
		}
		snapshot = append(snapshot, product(int64(i), title, fmt.Sprintf("%d.5", i%17)))
	}

	criteria := []Criteria{
		{},
		{Query: "red"},
		{MinPrice: bound("4")},
		{MaxPrice: bound("9")},
		{Query: "ITEM 1", MinPrice: bound("2"), MaxPrice: bound("12.5")},
	}

	for _, c := range criteria {
		got := Apply(snapshot, c)

		j := 0
		for _, p := range snapshot {
			if j < len(got) && got[j].ID == p.ID {
				if !c.Matches(p) {
					t.Fatalf("criteria=%+v: %q included but does not match", c, p.Title)
				}
				j++
				continue
			}
			if c.Matches(p) {
				t.Fatalf("criteria=%+v: %q excluded but matches", c, p.Title)
			}
		}
		if j != len(got) {
			t.Fatalf("criteria=%+v: result is not a subsequence of the snapshot", c)
		}
	}
}

func TestParseBound(t *testing.T) {
	if b, err := ParseBound("  "); err != nil || b != nil {
		t.Fatalf("blank: b=%v err=%v", b, err)
	}
	b, err := ParseBound("12.50")
	if err != nil || !b.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("b=%v err=%v", b, err)
	}
	if _, err := ParseBound("ten"); err == nil {
		t.Fatalf("expected error for non-numeric bound")
	}
}
