package topology

import "github.com/katalvlaran/lvflux/core"

// SingleReactionMetabolites returns, sorted by ID, the metabolites that take
// part in exactly one reaction. Metabolites for which exclude returns true are
// skipped; a nil exclude keeps everything.
//
// Such metabolites cannot carry steady-state flux through the network unless
// that single reaction is a boundary, which makes them the candidate set for
// dead-end detection.
func SingleReactionMetabolites(m *core.Model, exclude func(id string) bool) ([]string, error) {
	if m == nil {
		return nil, ErrModelNil
	}
	var out []string
	for _, id := range m.MetaboliteIDs() {
		if exclude != nil && exclude(id) {
			continue
		}
		rxns, err := m.MetaboliteReactions(id)
		if err != nil {
			return nil, err
		}
		if len(rxns) == 1 {
			out = append(out, id)
		}
	}

	return out, nil
}
