package content

import "github.com/mreeves/fosterhub/internal/model"

// TemplateBlock is one entry in a page's default block template
type TemplateBlock struct {
	BlockKey  string
	BlockType model.BlockType
	Title     string
}

// StaticPageTemplate is the default block set for fixed pages
var StaticPageTemplate = []TemplateBlock{
	{BlockKey: "hero", BlockType: model.BlockHero, Title: "Page heading"},
	{BlockKey: "intro", BlockType: model.BlockText, Title: "Introduction"},
	{BlockKey: "body", BlockType: model.BlockText, Title: "Main content"},
	{BlockKey: "cta", BlockType: model.BlockCTA, Title: "Get in touch"},
}

// LocationPageTemplate is the default block set for location pages
var LocationPageTemplate = []TemplateBlock{
	{BlockKey: "hero", BlockType: model.BlockHero, Title: "Fostering in this area"},
	{BlockKey: "intro", BlockType: model.BlockText, Title: "About fostering here"},
	{BlockKey: "agencies", BlockType: model.BlockText, Title: "Local agencies"},
	{BlockKey: "stats", BlockType: model.BlockStats, Title: "Area statistics"},
	{BlockKey: "testimonials", BlockType: model.BlockTestimonials, Title: "Carer stories"},
	{BlockKey: "faq", BlockType: model.BlockFAQ, Title: "Common questions"},
	{BlockKey: "cta", BlockType: model.BlockCTA, Title: "Start your journey"},
}

// TemplateForPage picks the template matching a page key's category
func TemplateForPage(pageKey string) []TemplateBlock {
	if IsLocationKey(pageKey) {
		return LocationPageTemplate
	}
	return StaticPageTemplate
}
