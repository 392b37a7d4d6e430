package pipeline

import (
	"fmt"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/util"
)

// publishingStatusByCode maps ONIX publishing status codes to catalog
// statuses. Unknown or absent codes fall back to draft; that is a safe
// default, never an error.
var publishingStatusByCode = map[string]string{
	"04": "published",
	"02": "pending",
	"07": "out_of_print",
}

// contributorRoleByCode maps ONIX contributor role codes to catalog
// roles. Codes without a mapping pass through as-is so no information
// is lost.
var contributorRoleByCode = map[string]string{
	"A01": "author",
}

func MapPublishingStatus(code *string) string {
	if code == nil {
		return "draft"
	}
	if status, ok := publishingStatusByCode[*code]; ok {
		return status
	}
	return "draft"
}

func MapContributorRole(code string) string {
	if role, ok := contributorRoleByCode[code]; ok {
		return role
	}
	return code
}

// MapTitle converts one canonical parsed product into the catalog
// shape. Source fields with no catalog destination are appended to
// UnmappedFields rather than dropped; per-field problems are recorded
// as validation errors on the row, which is always returned.
func MapTitle(product internal.ParsedProduct, _ internal.TenantContext) internal.MappedTitle {
	title := internal.MappedTitle{
		Title:             product.Title,
		Subtitle:          product.Subtitle,
		ISBN:              product.ISBN13,
		PublicationStatus: MapPublishingStatus(product.PublishingStatus),
		RawIndex:          product.RawIndex,
		UnmappedFields:    []internal.UnmappedField{},
		ValidationErrors:  []internal.ValidationError{},
	}

	if product.PublicationDate != nil {
		iso := product.PublicationDate.Format("2006-01-02")
		title.PublicationDate = &iso
	}

	for _, contributor := range product.Contributors {
		title.Contributors = append(title.Contributors, mapContributor(contributor))
	}

	if product.RecordReference != "" {
		title.UnmappedFields = append(title.UnmappedFields, internal.UnmappedField{Name: "RecordReference", RawValue: product.RecordReference})
	}
	if product.GTIN13 != nil {
		title.UnmappedFields = append(title.UnmappedFields, internal.UnmappedField{Name: "GTIN13", RawValue: *product.GTIN13})
	}
	if product.ProductForm != nil {
		title.UnmappedFields = append(title.UnmappedFields, internal.UnmappedField{Name: "ProductForm", RawValue: *product.ProductForm})
	}
	for _, price := range product.Prices {
		title.UnmappedFields = append(title.UnmappedFields, internal.UnmappedField{
			Name:     "Price",
			RawValue: fmt.Sprintf("%s %s %s", price.PriceType, price.Amount, price.Currency),
		})
	}
	for _, subject := range product.Subjects {
		value := subject.Code
		if value == "" {
			value = subject.HeadingText
		}
		title.UnmappedFields = append(title.UnmappedFields, internal.UnmappedField{Name: "Subject", RawValue: value})
	}

	ValidateTitle(&title)
	return title
}

// mapContributor resolves first/last names in preference order: the
// pre-split NamesBeforeKey/KeyNames pair, then the inverted form, then
// the flat display name through the name heuristic, then a corporate
// name in the surname slot.
func mapContributor(c internal.Contributor) internal.MappedContributor {
	mapped := internal.MappedContributor{Role: MapContributorRole(c.Role)}

	switch {
	case deref(c.NamesBeforeKey) != "" && deref(c.KeyNames) != "":
		mapped.FirstName = *c.NamesBeforeKey
		mapped.LastName = *c.KeyNames
	case deref(c.PersonNameInverted) != "":
		parsed := util.ParseInvertedName(*c.PersonNameInverted)
		mapped.FirstName = parsed.FirstName
		mapped.LastName = parsed.LastName
	case deref(c.PersonName) != "":
		parsed := util.ParseName(*c.PersonName)
		mapped.FirstName = parsed.FirstName
		mapped.LastName = parsed.LastName
	case deref(c.CorporateName) != "":
		mapped.LastName = *c.CorporateName
	default:
		mapped.LastName = "Unknown"
	}

	return mapped
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
