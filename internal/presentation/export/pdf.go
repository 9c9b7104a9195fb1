package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	pdfFont       = "Arial"
	pdfBodySize   = 10.0
	pdfLineHeight = 5.0
	pdfPageWidth  = 190.0
)

// MarkdownToPDF lays the report out on A4 pages. Core PDF fonts only cover cp1252, so other
// characters are translated where possible.
func MarkdownToPDF(markdown, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("go-research-monitor", true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", pdfBodySize)

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	w := &pdfWriter{
		pdf:    pdf,
		source: source,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
	if err := ast.Walk(doc, w.walk); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	source []byte
	tr     func(string) string

	size   float64
	bold   bool
	italic bool

	// one counter per nested list; 0 marks a bullet list
	lists []int
}

func (w *pdfWriter) setFont() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	size := w.size
	if size == 0 {
		size = pdfBodySize
	}
	w.pdf.SetFont(pdfFont, style, size)
}

func (w *pdfWriter) write(s string) {
	w.pdf.Write(pdfLineHeight, w.tr(s))
}

func (w *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.pdf.Ln(4)
			w.size = map[int]float64{1: 16, 2: 14, 3: 12}[node.Level]
			if w.size == 0 {
				w.size = 11
			}
			w.bold = true
		} else {
			w.size, w.bold = 0, false
			w.pdf.Ln(8)
		}
		w.setFont()

	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(pdfLineHeight)
			if len(w.lists) == 0 {
				w.pdf.Ln(2)
			}
		}

	case *ast.TextBlock:
		if !entering && node.NextSibling() != nil {
			w.pdf.Ln(pdfLineHeight)
		}

	case *ast.Text:
		if entering {
			w.write(string(node.Segment.Value(w.source)))
			switch {
			case node.HardLineBreak():
				w.pdf.Ln(pdfLineHeight)
			case node.SoftLineBreak():
				w.write(" ")
			}
		}

	case *ast.String:
		if entering {
			w.write(string(node.Value))
		}

	case *ast.Emphasis:
		if node.Level == 2 {
			w.bold = entering
		} else {
			w.italic = entering
		}
		w.setFont()

	case *ast.CodeSpan:
		if entering {
			w.pdf.SetFont("Courier", "", pdfBodySize)
			w.write(nodeText(node, w.source))
			w.setFont()
		}
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock:
		if entering {
			w.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			w.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.Link:
		if entering {
			w.pdf.SetTextColor(40, 80, 200)
		} else {
			w.pdf.SetTextColor(0, 0, 0)
		}

	case *ast.AutoLink:
		if entering {
			w.pdf.SetTextColor(40, 80, 200)
			w.write(string(node.Label(w.source)))
			w.pdf.SetTextColor(0, 0, 0)
		}
		return ast.WalkSkipChildren, nil

	case *ast.List:
		if entering {
			start := 0
			if node.IsOrdered() {
				start = node.Start
				if start == 0 {
					start = 1
				}
			}
			w.lists = append(w.lists, start)
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if len(w.lists) == 0 {
				w.pdf.Ln(2)
			}
		}

	case *ast.ListItem:
		if entering {
			depth := len(w.lists)
			w.pdf.SetX(10 + float64(depth)*5)
			marker := "- "
			if n := w.lists[depth-1]; n > 0 {
				marker = strconv.Itoa(n) + ". "
				w.lists[depth-1]++
			}
			w.write(marker)
		} else if _, ok := node.LastChild().(*ast.TextBlock); ok {
			w.pdf.Ln(pdfLineHeight)
		}

	case *ast.ThematicBreak:
		if entering {
			w.pdf.Ln(2)
			y := w.pdf.GetY()
			w.pdf.Line(10, y, 10+pdfPageWidth, y)
			w.pdf.Ln(4)
		}

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil

	case *extast.Table:
		if entering {
			w.table(node)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *pdfWriter) codeBlock(lines *text.Segments) {
	w.pdf.Ln(1)
	w.pdf.SetFont("Courier", "", pdfBodySize-1)
	w.pdf.SetFillColor(245, 245, 245)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		txt := strings.TrimRight(string(line.Value(w.source)), "\n")
		w.pdf.MultiCell(0, pdfLineHeight-0.5, w.tr(txt), "", "L", true)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.setFont()
	w.pdf.Ln(2)
}

func (w *pdfWriter) table(n *extast.Table) {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, nodeText(cell, w.source))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	cols := len(rows[0])
	colWidth := pdfPageWidth / float64(cols)
	w.pdf.Ln(1)
	for i, row := range rows {
		if i == 0 {
			w.pdf.SetFont(pdfFont, "B", pdfBodySize-1)
			w.pdf.SetFillColor(230, 230, 230)
		} else {
			w.pdf.SetFont(pdfFont, "", pdfBodySize-1)
			w.pdf.SetFillColor(255, 255, 255)
		}
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(row) {
				cell = w.fit(row[j], colWidth-2)
			}
			w.pdf.CellFormat(colWidth, pdfLineHeight+1, w.tr(cell), "1", 0, "L", true, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.setFont()
	w.pdf.Ln(2)
}

// fit shortens s until it fits width at the current font.
func (w *pdfWriter) fit(s string, width float64) string {
	if w.pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && w.pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// nodeText concatenates the text of every descendant of n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
