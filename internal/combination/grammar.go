package combination

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Separator joins segments of a combination expression.
const Separator = " + "

type expressionGrammar struct {
	Head *segmentGrammar   `parser:"@@"`
	Tail []*segmentGrammar `parser:"( Sep @@ )*"`
}

type segmentGrammar struct {
	Pos     lexer.Position
	Name    string `parser:"@Ident"`
	Overlap *int   `parser:"@Digit?"`
}

// Whitespace is not elided: the separator must be exactly " + ".
var expressionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-z_]+`},
	{Name: "Digit", Pattern: `[0-9]`},
	{Name: "Sep", Pattern: ` \+ `},
})

var expressionParser = participle.MustBuild[expressionGrammar](
	participle.Lexer(expressionLexer),
)

func (g *expressionGrammar) segments() []*segmentGrammar {
	out := make([]*segmentGrammar, 0, 1+len(g.Tail))
	out = append(out, g.Head)
	return append(out, g.Tail...)
}
