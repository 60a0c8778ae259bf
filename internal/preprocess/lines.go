package preprocess

import "strings"

// logicalLine is one line after backslash splicing and comment removal.
type logicalLine struct {
	text string
	// line is the 1-based physical line the logical line starts on.
	line int
	// span counts the physical lines folded into this one.
	span int
}

// splitLines splices continuation lines and replaces comments with a single
// space. A block comment that runs over several lines merges them into one
// logical line; span keeps the physical count so the output can pad it back.
func splitLines(text string) []logicalLine {
	var (
		out       []logicalLine
		cur       strings.Builder
		start     = 1
		phys      = 1
		inBlock   bool
		inComment bool
		quote     byte
	)
	flush := func() {
		out = append(out, logicalLine{text: cur.String(), line: start, span: phys - start + 1})
		cur.Reset()
		phys++
		start = phys
		inComment = false
		quote = 0
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' && i+1 < len(text) && text[i+1] == '\n' {
			phys++
			i++
			continue
		}
		switch {
		case inBlock:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				inBlock = false
				cur.WriteByte(' ')
				i++
			} else if c == '\n' {
				phys++
			}
			continue
		case c == '\n':
			flush()
			continue
		case inComment:
			continue
		case quote != 0:
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(text) && text[i+1] != '\n' {
				i++
				cur.WriteByte(text[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			inComment = true
			cur.WriteByte(' ')
			i++
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			inBlock = true
			i++
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 || inBlock || start < phys {
		if inBlock {
			cur.WriteByte(' ')
		}
		out = append(out, logicalLine{text: cur.String(), line: start, span: phys - start + 1})
	}
	return out
}

// directiveName splits "# name args" into name and args. ok is false for
// lines that are not directives.
func directiveName(text string) (name, args string, ok bool) {
	rest := strings.TrimLeft(text, " \t")
	if !strings.HasPrefix(rest, "#") {
		return "", "", false
	}
	rest = strings.TrimLeft(rest[1:], " \t")
	n := identLen(rest)
	return rest[:n], strings.TrimSpace(rest[n:]), true
}
