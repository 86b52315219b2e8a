package lyrics

import (
	"sort"
	"strings"
	"testing"
)

func TestExtractCredits(t *testing.T) {
	cleaned := "作词：A\n作曲：B\n第一行歌词\n第二行歌词"
	residual, metadata := Extract(cleaned)

	if residual != "第一行歌词\n第二行歌词" {
		t.Errorf("residual = %q", residual)
	}
	if len(metadata) != 2 || metadata["作词"] != "A" || metadata["作曲"] != "B" {
		t.Errorf("metadata = %v", metadata)
	}
}

func TestExtractAllRoles(t *testing.T) {
	lines := []string{
		"作词：甲",
		"作曲：乙",
		"编曲：丙",
		"制作人：丁",
		"混音：戊",
		"母带：己",
		"美工：庚",
		"配唱制作人：辛",
		"监制：壬",
		"歌词正文",
	}
	residual, metadata := Extract(strings.Join(lines, "\n"))

	if residual != "歌词正文" {
		t.Errorf("residual = %q", residual)
	}
	if len(metadata) != len(RoleVocabulary) {
		t.Fatalf("expected %d roles, got %d: %v", len(RoleVocabulary), len(metadata), metadata)
	}
	for _, role := range RoleVocabulary {
		if metadata[role] == "" {
			t.Errorf("role %s missing", role)
		}
	}
}

func TestExtractLastOccurrenceWins(t *testing.T) {
	_, metadata := Extract("作词：第一个\n歌词\n作词：第二个")
	if metadata["作词"] != "第二个" {
		t.Errorf("作词 = %q, want 第二个", metadata["作词"])
	}
}

func TestExtractColonVariants(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "fullwidth colon", line: "作词：ilem", want: "ilem"},
		{name: "halfwidth colon", line: "作词:ilem", want: "ilem"},
		{name: "spaces around colon", line: "作词 ： ilem", want: "ilem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, metadata := Extract(tt.line)
			if metadata["作词"] != tt.want {
				t.Errorf("作词 = %q, want %q", metadata["作词"], tt.want)
			}
		})
	}
}

func TestExtractLeavesUnrecognizedRoles(t *testing.T) {
	residual, metadata := Extract("调教：某P\n歌词")
	if len(metadata) != 0 {
		t.Errorf("unexpected metadata: %v", metadata)
	}
	if !strings.Contains(residual, "调教：某P") {
		t.Errorf("unrecognized role line must stay in residual, got %q", residual)
	}
}

func TestExtractMidLineColonNotCredit(t *testing.T) {
	line := "她说 作词：人生不过一场戏"
	residual, metadata := Extract(line)
	if len(metadata) != 0 {
		t.Errorf("mid-line role must not extract, got %v", metadata)
	}
	if residual != line {
		t.Errorf("residual = %q", residual)
	}
}

func TestExtractDropsCopyrightNotice(t *testing.T) {
	residual, _ := Extract("歌词\n（版权所有，未经许可请勿使用）")
	if residual != "歌词" {
		t.Errorf("residual = %q", residual)
	}
}

// Residual lines plus extracted credit lines reconstruct the input line set.
func TestExtractPartitionsLines(t *testing.T) {
	input := []string{"作词：A", "第一行", "作曲：B", "第二行", "第三行"}
	residual, metadata := Extract(strings.Join(input, "\n"))

	got := make([]string, 0, len(input))
	got = append(got, strings.Split(residual, "\n")...)
	for role, name := range metadata {
		got = append(got, role+"："+name)
	}

	sort.Strings(got)
	want := append([]string(nil), input...)
	sort.Strings(want)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("partition mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	residual, metadata := Extract("")
	if residual != "" || metadata != nil {
		t.Errorf("Extract(\"\") = %q, %v", residual, metadata)
	}
}
