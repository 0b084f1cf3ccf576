package lexicon

import "testing"

func TestInsertAndWalk(t *testing.T) {
	trie := New()
	// a=0, b=1 alphabet; word "ab" -> word id 0
	trie.Insert([]int{0, 1}, 0)

	child, ok := trie.Root().Children[0]
	if !ok {
		t.Fatal("Expected child edge on token 0 from root")
	}
	grandchild, ok := child.Children[1]
	if !ok {
		t.Fatal("Expected grandchild edge on token 1")
	}
	if len(grandchild.Labels) != 1 || grandchild.Labels[0] != 0 {
		t.Error("Expected word label 0 at the ab node, got", grandchild.Labels)
	}
}

func TestComputeMaxScore(t *testing.T) {
	trie := New()
	trie.Insert([]int{0, 1}, 0)  // "ab" -> word 0
	trie.Insert([]int{0, 2}, 1)  // "ac" -> word 1
	scores := map[int]float64{0: -1.0, 1: -5.0}
	trie.ComputeMaxScore(func(word int) float64 { return scores[word] })

	aNode := trie.Root().Children[0]
	if aNode.MaxScore != -1.0 {
		t.Error("Expected the 'a' node maxScore to be the better of its two children, got", aNode.MaxScore)
	}
}

func TestLoadFromWords(t *testing.T) {
	tokenize := func(word string) []int {
		tokens := make([]int, len(word))
		for i, ch := range word {
			tokens[i] = int(ch) - int('a')
		}
		return tokens
	}
	trie, wordIds := LoadFromWords([]string{"ab", "ab", "ac"}, tokenize)
	if len(wordIds) != 2 {
		t.Error("Expected 2 distinct words, got", len(wordIds))
	}
	if trie.Root().Children[0] == nil {
		t.Fatal("Expected a child on token 'a'-'a'=0")
	}
}
