package catalog

import (
	"strconv"
	"strings"

	"StoreAdmin/internal/commerce"
)

type ProductForm struct {
	Title             string `json:"title"`
	Vendor            string `json:"vendor"`
	Price             string `json:"price"`
	SKU               string `json:"sku"`
	InventoryQuantity string `json:"inventory_quantity"`
	Alt               string `json:"alt"`
	Src               string `json:"src"`
}

func (f ProductForm) Validate() error {
	v := &commerce.ValidationError{}

	required := []struct {
		field, value, msg string
	}{
		{"title", f.Title, "Title is required"},
		{"vendor", f.Vendor, "Vendor is required"},
		{"price", f.Price, "Price is required"},
		{"sku", f.SKU, "SKU is required"},
		{"inventory_quantity", f.InventoryQuantity, "Inventory Quantity is required"},
		{"alt", f.Alt, "Image Alt is required"},
		{"src", f.Src, "Image Src is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			v.Add(r.field, r.msg)
		}
	}

	if !v.Has("inventory_quantity") {
		if _, err := strconv.Atoi(strings.TrimSpace(f.InventoryQuantity)); err != nil {
			v.Add("inventory_quantity", "Inventory Quantity must be a whole number")
		}
	}

	return v.Err()
}

func (f ProductForm) createInput() commerce.ProductInput {
	qty, _ := strconv.Atoi(strings.TrimSpace(f.InventoryQuantity))
	return commerce.ProductInput{
		Title:  f.Title,
		Vendor: f.Vendor,
		Images: []commerce.ImageInput{{Alt: f.Alt, Src: f.Src}},
		Variants: []commerce.VariantInput{{
			Price:             f.Price,
			SKU:               f.SKU,
			InventoryQuantity: &qty,
		}},
	}
}

// updateInput sends the form unchecked; SKU and inventory are not editable.
func (f ProductForm) updateInput() commerce.ProductInput {
	return commerce.ProductInput{
		Title:    f.Title,
		Vendor:   f.Vendor,
		Images:   []commerce.ImageInput{{Alt: f.Alt, Src: f.Src}},
		Variants: []commerce.VariantInput{{Price: f.Price}},
	}
}

func EditForm(p Product) ProductForm {
	f := ProductForm{Title: p.Title, Vendor: p.Vendor}
	if len(p.Variants) > 0 {
		f.Price = string(p.Variants[0].Price)
	}
	if len(p.Images) > 0 {
		f.Alt = p.Images[0].Alt
		f.Src = p.Images[0].Src
	}
	return f
}
