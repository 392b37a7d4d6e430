package onix

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

// referenceParser21 walks ONIX 2.1 documents. Short-tag input is
// expanded to reference spellings before it reaches this parser, so a
// contributor may carry either a flat PersonName (reference feeds) or a
// PersonNameInverted (short-tag-originated feeds).
type referenceParser21 struct{}

func (p *referenceParser21) Parse(text string) (result internal.ParseResult) {
	result.Version = internal.Version21
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
			result.Header = parseHeader21(child)
		case "Product":
			result.Products = append(result.Products, parseProduct21(child, len(result.Products)))
		}
	}
	return result
}

func parseHeader21(el *etree.Element) internal.MessageHeader {
	header := internal.MessageHeader{
		SenderName:  childText(el, "FromCompany"),
		SenderEmail: childText(el, "FromEmail"),
		SentDate:    childText(el, "SentDate"),
	}
	if header.SenderName == "" {
		header.SenderName = childText(el, "SenderName")
	}
	return header
}

func parseProduct21(el *etree.Element, rawIndex int) internal.ParsedProduct {
	product := internal.ParsedProduct{RawIndex: rawIndex}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "RecordReference":
			product.RecordReference = elementText(child)
		case "ISBN":
			product.ISBN13 = optional(elementText(child))
		case "EAN13":
			product.GTIN13 = optional(elementText(child))
		case "ProductForm":
			product.ProductForm = optional(elementText(child))
		case "DistinctiveTitle":
			product.Title = elementText(child)
		case "Subtitle":
			product.Subtitle = optional(elementText(child))
		case "Contributor":
			product.Contributors = append(product.Contributors, parseContributor21(child))
		case "PublishingStatus":
			product.PublishingStatus = optional(elementText(child))
		case "PublicationDate":
			product.PublicationDate = parseONIXDate(elementText(child))
		case "Price":
			product.Prices = append(product.Prices, internal.Price{
				PriceType: childText(child, "PriceTypeCode"),
				Amount:    childText(child, "PriceAmount"),
				Currency:  childText(child, "CurrencyCode"),
			})
		case "BASICMainSubject":
			product.Subjects = append(product.Subjects, internal.Subject{
				SchemeIdentifier: "01",
				Code:             elementText(child),
			})
		}
	}

	sortContributors(product.Contributors)
	return product
}

func parseContributor21(el *etree.Element) internal.Contributor {
	contributor := internal.Contributor{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "SequenceNumber":
			if n, err := strconv.Atoi(elementText(child)); err == nil {
				contributor.SequenceNumber = n
			}
		case "ContributorRole":
			contributor.Role = elementText(child)
		case "PersonName":
			contributor.PersonName = optional(elementText(child))
		case "PersonNameInverted":
			contributor.PersonNameInverted = optional(elementText(child))
		case "CorporateName":
			contributor.CorporateName = optional(elementText(child))
		}
	}
	return contributor
}
