package onix

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

// referenceParser3x walks ONIX 3.0/3.1 reference-tag documents. The two
// releases are structurally identical here; only the namespace and the
// version label differ.
type referenceParser3x struct {
	version internal.DetectedVersion
}

func (p *referenceParser3x) Parse(text string) (result internal.ParseResult) {
	result.Version = p.version
	result.Products = []internal.ParsedProduct{}

	defer func() {
		if r := recover(); r != nil {
			result.Products = []internal.ParsedProduct{}
			result.ParsingErrors = append(result.ParsingErrors, fmt.Sprintf("unexpected parser failure: %v", r))
		}
	}()

	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		result.ParsingErrors = append(result.ParsingErrors, fmt.Sprintf("malformed XML: %v", err))
		return result
	}
	root := doc.Root()
	if root == nil {
		result.ParsingErrors = append(result.ParsingErrors, "document has no root element")
		return result
	}

	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "Header":
			result.Header = parseHeader3x(child)
		case "Product":
			result.Products = append(result.Products, parseProduct3x(child, len(result.Products)))
		}
	}
	return result
}

func parseHeader3x(el *etree.Element) internal.MessageHeader {
	header := internal.MessageHeader{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "Sender":
			header.SenderName = childText(child, "SenderName")
			header.SenderEmail = childText(child, "EmailAddress")
		case "SentDateTime":
			header.SentDate = elementText(child)
		}
	}
	return header
}

func parseProduct3x(el *etree.Element, rawIndex int) internal.ParsedProduct {
	product := internal.ParsedProduct{RawIndex: rawIndex}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "RecordReference":
			product.RecordReference = elementText(child)
		case "ProductIdentifier":
			value := childText(child, "IDValue")
			if value == "" {
				continue
			}
			switch childText(child, "ProductIDType") {
			case "15":
				product.ISBN13 = optional(value)
			case "03":
				product.GTIN13 = optional(value)
			}
		case "DescriptiveDetail":
			parseDescriptiveDetail(child, &product)
		case "PublishingDetail":
			parsePublishingDetail(child, &product)
		case "ProductSupply":
			for _, supply := range childElements(child, "SupplyDetail") {
				for _, price := range childElements(supply, "Price") {
					product.Prices = append(product.Prices, internal.Price{
						PriceType: childText(price, "PriceType"),
						Amount:    childText(price, "PriceAmount"),
						Currency:  childText(price, "CurrencyCode"),
					})
				}
			}
		}
	}

	sortContributors(product.Contributors)
	return product
}

func parseDescriptiveDetail(el *etree.Element, product *internal.ParsedProduct) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "ProductForm":
			product.ProductForm = optional(elementText(child))
		case "TitleDetail":
			if childText(child, "TitleType") != "01" {
				continue
			}
			for _, titleEl := range childElements(child, "TitleElement") {
				if childText(titleEl, "TitleElementLevel") != "01" {
					continue
				}
				product.Title = childText(titleEl, "TitleText")
				product.Subtitle = optional(childText(titleEl, "Subtitle"))
			}
		case "Contributor":
			product.Contributors = append(product.Contributors, parseContributor3x(child))
		case "Subject":
			product.Subjects = append(product.Subjects, internal.Subject{
				SchemeIdentifier: childText(child, "SubjectSchemeIdentifier"),
				Code:             childText(child, "SubjectCode"),
				HeadingText:      childText(child, "SubjectHeadingText"),
			})
		}
	}
}

func parsePublishingDetail(el *etree.Element, product *internal.ParsedProduct) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "PublishingStatus":
			product.PublishingStatus = optional(elementText(child))
		case "PublishingDate":
			if childText(child, "PublishingDateRole") != "01" {
				continue
			}
			product.PublicationDate = parseONIXDate(childText(child, "Date"))
		}
	}
}

func parseContributor3x(el *etree.Element) internal.Contributor {
	contributor := internal.Contributor{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "SequenceNumber":
			if n, err := strconv.Atoi(elementText(child)); err == nil {
				contributor.SequenceNumber = n
			}
		case "ContributorRole":
			contributor.Role = elementText(child)
		case "PersonNameInverted":
			contributor.PersonNameInverted = optional(elementText(child))
		case "NamesBeforeKey":
			contributor.NamesBeforeKey = optional(elementText(child))
		case "KeyNames":
			contributor.KeyNames = optional(elementText(child))
		case "CorporateName":
			contributor.CorporateName = optional(elementText(child))
		}
	}
	return contributor
}

func sortContributors(contributors []internal.Contributor) {
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].SequenceNumber < contributors[j].SequenceNumber
	})
}

// helpers shared by both dialect parsers; tag comparison ignores any
// namespace prefix since etree keeps it in Element.Space.

func childElements(el *etree.Element, tag string) []*etree.Element {
	out := []*etree.Element{}
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

func childText(el *etree.Element, tag string) string {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return elementText(child)
		}
	}
	return ""
}

func elementText(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
