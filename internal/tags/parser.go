package tags

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-credits/pkg/interfaces"
)

// placeholderFormat marks an extracted tag in the transformed content. The
// delete characters keep it from colliding with authored text.
const placeholderFormat = "\x7f'\"`UNIQ--tag-%08X-QINU`\"'\x7f"

var attrPattern = regexp.MustCompile(`([^\s=/>"']+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+)))?`)

// maxCachedPatterns bounds the compiled pattern cache. Name sets change only
// when the registry does, so the limit is rarely reached.
const maxCachedPatterns = 64

// Parser extracts extension tags written in XML style, either self-closing
// (<name attr="v" />) or paired (<name>body</name>). Only the names passed to
// Extract are recognised, everything else is left as authored. Compiled
// patterns are cached, a Parser is safe for concurrent use.
type Parser struct {
	mu      sync.Mutex
	opening map[string]*regexp.Regexp
	closing map[string]*regexp.Regexp
}

// NewParser creates a parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Placeholder returns the marker Extract emits for the tag at index.
func Placeholder(index int) string {
	return fmt.Sprintf(placeholderFormat, index)
}

// Extract replaces each recognised tag with a placeholder and returns the
// transformed content together with the parsed tags in document order. An
// opening tag without a matching close is treated as self-closing.
func (p *Parser) Extract(content string, names []string) (string, []interfaces.ParsedTag) {
	if content == "" {
		return content, nil
	}
	openPattern := p.openPattern(names)
	if openPattern == nil {
		return content, nil
	}

	var (
		out      strings.Builder
		parsed   []interfaces.ParsedTag
		position int
	)

	for position < len(content) {
		loc := openPattern.FindStringSubmatchIndex(content[position:])
		if loc == nil {
			out.WriteString(content[position:])
			break
		}

		start := position + loc[0]
		end := position + loc[1]
		name := strings.ToLower(content[position+loc[2] : position+loc[3]])
		rawAttrs := ""
		if loc[4] >= 0 {
			rawAttrs = content[position+loc[4] : position+loc[5]]
		}
		selfClosing := loc[7] > loc[6]

		tag := interfaces.ParsedTag{
			Name:  name,
			Attrs: parseAttrs(rawAttrs),
			Start: start,
		}

		if !selfClosing {
			if closeLoc := p.closePattern(name).FindStringIndex(content[end:]); closeLoc != nil {
				tag.Body = content[end : end+closeLoc[0]]
				end += closeLoc[1]
			}
		}
		tag.End = end

		out.WriteString(content[position:start])
		out.WriteString(Placeholder(len(parsed)))
		parsed = append(parsed, tag)
		position = end
	}

	return out.String(), parsed
}

func (p *Parser) openPattern(names []string) *regexp.Regexp {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		name = normalizeName(name)
		if name == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	if len(quoted) == 0 {
		return nil
	}
	// longest first so "credits-list" wins over "credits"
	sort.Slice(quoted, func(i, j int) bool {
		if len(quoted[i]) != len(quoted[j]) {
			return len(quoted[i]) > len(quoted[j])
		}
		return quoted[i] < quoted[j]
	})
	alternation := strings.Join(quoted, "|")

	return p.cached(&p.opening, alternation, func() *regexp.Regexp {
		return regexp.MustCompile(`(?i)<(` + alternation + `)((?:\s+[^\s=/>"']+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>/]+))?)*)\s*(/?)>`)
	})
}

func (p *Parser) closePattern(name string) *regexp.Regexp {
	return p.cached(&p.closing, name, func() *regexp.Regexp {
		return regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(name) + `\s*>`)
	})
}

func (p *Parser) cached(store *map[string]*regexp.Regexp, key string, compile func() *regexp.Regexp) *regexp.Regexp {
	p.mu.Lock()
	defer p.mu.Unlock()
	if re, ok := (*store)[key]; ok {
		return re
	}
	if *store == nil || len(*store) >= maxCachedPatterns {
		*store = make(map[string]*regexp.Regexp)
	}
	re := compile()
	(*store)[key] = re
	return re
}

// parseAttrs decodes tag attributes. Keys are lower-cased, entity references
// in values are decoded and bare attributes map to "".
func parseAttrs(raw string) map[string]string {
	attrs := map[string]string{}
	for _, match := range attrPattern.FindAllStringSubmatch(raw, -1) {
		key := strings.ToLower(match[1])
		value := match[2]
		if value == "" {
			value = match[3]
		}
		if value == "" {
			value = match[4]
		}
		attrs[key] = html.UnescapeString(value)
	}
	return attrs
}

var _ interfaces.TagParser = (*Parser)(nil)
