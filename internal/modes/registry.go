package modes

import (
	"harjoitus/internal/content"
	"harjoitus/internal/session"
)

// Registry holds every mode built over one content library
type Registry struct {
	order []string
	modes map[string]Mode
}

// NewRegistry builds all modes over lib
func NewRegistry(lib *content.Library) *Registry {
	r := &Registry{modes: make(map[string]Mode)}
	for _, m := range []Mode{
		newVocabularyMode(lib, VocabularyRecall, "Sanasto: suomi → englanti", fromFinnish, session.EliminateOnFirstCorrect),
		newVocabularyMode(lib, VocabularyActiveRecall, "Sanasto: englanti → suomi", fromEnglish, session.EliminateOnFirstCorrect),
		newVocabularyMode(lib, VocabularyMemorise, "Sanasto: opettele ulkoa", fromFinnish, session.Escalating),
		newCasesMode(lib, false),
		newCasesMode(lib, true),
		newConjugateMode(lib),
		newIdentifyMode(lib),
		newFormMode(lib, Partitive, "Partitiivi", "partitiivi", func(w content.WordForm) string { return w.Partitive }),
		newFormMode(lib, PartitivePlural, "Partitiivi monikko", "monikon partitiivi", func(w content.WordForm) string { return w.PartitivePlural }),
		newFormMode(lib, Plural, "Monikko", "monikon nominatiivi", func(w content.WordForm) string { return w.Plural }),
		newFormMode(lib, Genitive, "Genetiivi", "genetiivi", func(w content.WordForm) string { return w.Genitive }),
		newFormMode(lib, GenitivePlural, "Genetiivi monikko", "monikon genetiivi", func(w content.WordForm) string { return w.GenitivePlural }),
		newSmallWordsMode(lib),
		newLyricsMode(lib),
		newQuestionWordsMode(lib),
	} {
		r.order = append(r.order, m.ID())
		r.modes[m.ID()] = m
	}
	return r
}

// Get looks up a mode by id
func (r *Registry) Get(id string) (Mode, bool) {
	m, ok := r.modes[id]
	return m, ok
}

// All returns the modes in menu order
func (r *Registry) All() []Mode {
	out := make([]Mode, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.modes[id])
	}
	return out
}
