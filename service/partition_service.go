package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/tieubaoca/docchat-be/types"
	"github.com/tieubaoca/docchat-be/utils"
)

// Partitioner produces the typed element sequence of one document.
type Partitioner interface {
	Partition(ctx context.Context, filePath string) ([]types.Element, error)
}

// PartitionService extracts elements from PDF files using the poppler
// tools (pdfinfo, pdftotext, pdfimages). Text blocks are classified into
// titles, tables and narrative text; embedded images are exported as
// base64 payloads.
type PartitionService struct{}

var _ Partitioner = (*PartitionService)(nil)

func NewPartitionService() *PartitionService {
	return &PartitionService{}
}

// Partition walks the document page by page and returns its elements in
// reading order. A failure to read the document itself is fatal; a
// failure to export images degrades that page to text-only elements.
func (s *PartitionService) Partition(ctx context.Context, filePath string) ([]types.Element, error) {
	totalPages, err := getNumPages(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	log.Println("Total pages: ", totalPages)

	var elements []types.Element
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := extractPageText(ctx, filePath, pageNum)
		if err != nil {
			log.Printf("Warning: failed to extract text from page %d: %v", pageNum, err)
		} else {
			elements = append(elements, classifyBlocks(splitBlocks(text), pageNum)...)
		}

		images, err := s.extractPageImages(ctx, filePath, pageNum)
		if err != nil {
			// Image export is best-effort; keep the page's text elements.
			log.Printf("Warning: failed to extract images from page %d: %v", pageNum, err)
			continue
		}
		elements = append(elements, images...)
	}
	return elements, nil
}

// getNumPages uses pdfinfo to get the total number of pages in a PDF file
func getNumPages(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %v", err)
	}

	scanner := bufio.NewScanner(&out)
	re := regexp.MustCompile(`Pages:\s+(\d+)`)
	for scanner.Scan() {
		if matches := re.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}

	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

// extractPageText extracts layout-preserving text for one page.
func extractPageText(ctx context.Context, filePath string, pageNumber int) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-layout",
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var txtOut bytes.Buffer
	cmd.Stdout = &txtOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error executing pdftotext for page %d: %v", pageNumber, err)
	}
	return cleanText(txtOut.String()), nil
}

// extractPageImages exports the embedded images of one page into a temp
// directory and returns them as base64 image elements.
func (s *PartitionService) extractPageImages(ctx context.Context, pdfPath string, pageNumber int) ([]types.Element, error) {
	tempFolder, err := os.MkdirTemp("", "docchat-images-"+utils.GetFileNameWithoutExt(pdfPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempFolder)

	cmd := exec.CommandContext(ctx, "pdfimages",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-png",
		pdfPath, filepath.Join(tempFolder, "img"))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run pdfimages: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(tempFolder, "img-*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to read image files: %w", err)
	}
	sort.Strings(files)

	var elements []types.Element
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("Warning: failed to read exported image %s: %v", file, err)
			continue
		}
		elements = append(elements, types.Element{
			Category: types.CategoryImage,
			Content:  base64.StdEncoding.EncodeToString(data),
			AltText:  fmt.Sprintf("figure on page %d", pageNumber),
			Page:     pageNumber,
		})
	}
	return elements, nil
}

// splitBlocks cuts page text into blocks on blank-line runs.
func splitBlocks(text string) []string {
	var blocks []string
	for _, block := range regexp.MustCompile(`\n\s*\n+`).Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, strings.Trim(block, "\n"))
		}
	}
	return blocks
}

// classifyBlocks tags each text block as a title, a table, or narrative
// text. Anything the heuristics cannot recognize stays plain text.
func classifyBlocks(blocks []string, pageNum int) []types.Element {
	var elements []types.Element
	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		switch {
		case looksLikeTable(lines):
			elements = append(elements, types.Element{
				Category: types.CategoryTable,
				Content:  tableToHTML(lines),
				AltText:  collapseSpaces(block),
				Page:     pageNum,
			})
		case len(lines) == 1 && looksLikeTitle(lines[0]):
			elements = append(elements, types.Element{
				Category: types.CategoryTitle,
				Content:  collapseSpaces(lines[0]),
				Page:     pageNum,
			})
		default:
			elements = append(elements, types.Element{
				Category: types.CategoryText,
				Content:  collapseSpaces(block),
				Page:     pageNum,
			})
		}
	}
	return elements
}

const maxTitleLength = 90

// looksLikeTitle reports whether a single line reads as a section
// heading: short, no sentence-ending punctuation, and either numbered,
// all-caps, or starting with an uppercase letter.
func looksLikeTitle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > maxTitleLength {
		return false
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") ||
		strings.HasSuffix(line, ";") || strings.HasSuffix(line, "?") ||
		strings.HasSuffix(line, "!") {
		return false
	}

	runes := []rune(line)
	if numberedHeadingRe.MatchString(line) {
		return true
	}
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	// All-caps lines are headings even when long-ish.
	letters, uppers := 0, 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters > 0 && uppers == letters {
		return true
	}
	// Short capitalized lines with few words read as headings.
	return len(strings.Fields(line)) <= 8
}

var numberedHeadingRe = regexp.MustCompile(`^(\d+(\.\d+)*\.?|[IVXLC]+\.|Chapter\s+\d+|Appendix\s+[A-Z])(\s+\S|$)`)

var columnGapRe = regexp.MustCompile(`\S(\s{2,})\S`)

// looksLikeTable reports whether a block of layout-preserved lines reads
// as a table: several lines, most of them split into two or more columns
// by wide space runs.
func looksLikeTable(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	columnar := 0
	for _, line := range lines {
		if len(columnGapRe.FindAllString(line, -1)) >= 1 {
			columnar++
		}
	}
	return columnar*10 >= len(lines)*6
}

// tableToHTML renders a layout-preserved table block as HTML markup,
// splitting cells on wide space runs.
func tableToHTML(lines []string) string {
	var b strings.Builder
	b.WriteString("<table>")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<tr>")
		for _, cell := range regexp.MustCompile(`\s{2,}`).Split(line, -1) {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(strings.TrimSpace(cell)))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(regexp.MustCompile(`\s+`).ReplaceAllString(s, " "))
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\x00": "",   // Null character
		"�": "",   // Unicode replacement character
		"": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return cleaned
}
