package relations

// Kind is a viewpoint-normalized relation as reported to callers: the same
// stored fact reads "opposes" from the acting entity and "opposed_by" from
// the target entity.
type Kind string

const (
	KindOpposes     Kind = "opposes"
	KindSupports    Kind = "supports"
	KindOpposedBy   Kind = "opposed_by"
	KindSupportedBy Kind = "supported_by"
	KindOther       Kind = "other"
	KindOtherBy     Kind = "other_by"

	// KindMutualAgreement is only produced by deprecated legacy labels.
	KindMutualAgreement Kind = "mutual_agreement"
)

// Slot identifies which slot of a stored fact the viewpoint anchor occupies.
type Slot int

const (
	SlotEnt1 Slot = iota + 1
	SlotEnt2
)

// viewpoints maps (stored label, anchor slot) to the reported kind. The
// legacy mutual_* labels only ever resolved from the ent1 slot, and the
// opposition variant was collapsed into mutual_agreement upstream; both
// quirks are kept as-is so legacy snapshots keep reading the same.
var viewpoints = map[Label]map[Slot]Kind{
	Ent1SupportsEnt2: {SlotEnt1: KindSupports, SlotEnt2: KindSupportedBy},
	Ent1OpposesEnt2:  {SlotEnt1: KindOpposes, SlotEnt2: KindOpposedBy},
	Ent2SupportsEnt1: {SlotEnt2: KindSupports, SlotEnt1: KindSupportedBy},
	Ent2OpposesEnt1:  {SlotEnt2: KindOpposes, SlotEnt1: KindOpposedBy},
	Other:            {SlotEnt1: KindOther, SlotEnt2: KindOtherBy},
	MutualAgreement:  {SlotEnt1: KindMutualAgreement},
	MutualOpposition: {SlotEnt1: KindMutualAgreement},
}

// KindFor resolves the reported kind for a stored label seen from the given
// anchor slot. The second return is false for unknown labels and for slots a
// deprecated label never mapped.
func KindFor(label Label, slot Slot) (Kind, bool) {
	bySlot, ok := viewpoints[label]
	if !ok {
		return "", false
	}
	kind, ok := bySlot[slot]
	return kind, ok
}

// sentimentKinds are the kinds included in the sentiment-only view.
var sentimentKinds = map[Kind]bool{
	KindOpposes:     true,
	KindSupports:    true,
	KindOpposedBy:   true,
	KindSupportedBy: true,
}

// IsSentiment reports whether kind carries sentiment (i.e. is not an
// "other"/legacy kind).
func IsSentiment(kind Kind) bool {
	return sentimentKinds[kind]
}
