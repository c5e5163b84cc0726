package diff

import "github.com/exograph/exoschema/ir"

// diffEnums implements spec.md §4.3 rule 7: variant-appended-only changes
// become a series of AddEnumVariant ops; any other change (removal,
// reorder, mid-list insertion) degrades to DropEnum + CreateEnum.
func diffEnums(src, tgt *ir.Schema) []SchemaOp {
	var ops []SchemaOp
	srcKeys := src.SortedEnumKeys()
	tgtKeys := tgt.SortedEnumKeys()
	srcSet := toSet(srcKeys)
	tgtSet := toSet(tgtKeys)

	for _, key := range tgtKeys {
		e := tgt.Enums[key]
		if !srcSet[key] {
			ops = append(ops, SchemaOp{Kind: OpCreateEnum, EnumName: e.QName, EnumVariants: e.Variants})
			continue
		}
		s := src.Enums[key]
		if s.Equal(e) {
			continue
		}
		if added, ok := s.AppendedVariants(e); ok {
			for _, v := range added {
				ops = append(ops, SchemaOp{Kind: OpAddEnumVariant, EnumName: e.QName, Variant: v})
			}
			continue
		}
		ops = append(ops, SchemaOp{Kind: OpDropEnum, EnumName: s.QName, Rationale: "incompatible enum variant change"})
		ops = append(ops, SchemaOp{Kind: OpCreateEnum, EnumName: e.QName, EnumVariants: e.Variants})
	}

	for _, key := range srcKeys {
		if !tgtSet[key] {
			ops = append(ops, SchemaOp{Kind: OpDropEnum, EnumName: src.Enums[key].QName})
		}
	}
	return ops
}

// diffSequences tracks create/drop only; Sequence carries no field whose
// change has a corresponding ALTER op in spec.md §4.3's tagged variant list.
func diffSequences(src, tgt *ir.Schema) []SchemaOp {
	var ops []SchemaOp
	srcSet := toSet(src.SortedSequenceKeys())
	for _, key := range tgt.SortedSequenceKeys() {
		if !srcSet[key] {
			sq := tgt.Sequences[key]
			ops = append(ops, SchemaOp{Kind: OpCreateSequence, SeqName: sq.QName, Sequence: sq})
		}
	}
	tgtSet := toSet(tgt.SortedSequenceKeys())
	for _, key := range src.SortedSequenceKeys() {
		if !tgtSet[key] {
			sq := src.Sequences[key]
			ops = append(ops, SchemaOp{Kind: OpDropSequence, SeqName: sq.QName})
		}
	}
	return ops
}
