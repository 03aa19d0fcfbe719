package corpus

import "regexp"

// controlPattern matches engine control sequences embedded in display text,
// e.g. \C[2], \N[1], \V[12], \G, \., \|.
var controlPattern = regexp.MustCompile(`\\[A-Za-z]+(\[[^\]]*\])?|\\[.|^!><{}$]`)

// ControlSequences lists the control sequences in a line, in order.
func ControlSequences(s string) []string {
	return controlPattern.FindAllString(s, -1)
}

// AuditControls reports control sequences present in the source line but
// missing from its translation. Purely advisory: reinsertion proceeds either
// way, the caller only logs the result.
func AuditControls(source, translated string) []string {
	have := make(map[string]int)
	for _, seq := range ControlSequences(translated) {
		have[seq]++
	}

	var missing []string
	for _, seq := range ControlSequences(source) {
		if have[seq] > 0 {
			have[seq]--
			continue
		}
		missing = append(missing, seq)
	}
	return missing
}
