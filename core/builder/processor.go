package builder

import (
	"fmt"

	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/schema"
)

// Names of the columns derived by the standard processor.
const (
	ParamsChangeColumn = "paramsChange"
	HeaderChangeColumn = "headerChange"
)

// ParamsChangeTypes are merged into the paramsChange column.
var ParamsChangeTypes = []schema.ChangeType{
	schema.ParameterDelete,
	schema.ParameterInsert,
	schema.ParameterOrderingChange,
	schema.ParameterRenaming,
	schema.ParameterTypeChange,
}

// HeaderChangeTypes are merged into the headerChange column.
var HeaderChangeTypes = []schema.ChangeType{
	schema.AddingMethodOverridability,
	schema.DecreasingAccessibilityChange,
	schema.IncreasingAccessibilityChange,
	schema.MethodRenaming,
	schema.RemovingMethodOverridability,
	schema.ReturnTypeChange,
	schema.ReturnTypeDelete,
	schema.ReturnTypeInsert,
}

// DiscardedChangeTypes never describe a method body and are dropped.
var DiscardedChangeTypes = []schema.ChangeType{
	schema.AddingAttributeModifiability,
	schema.AddingClassDerivability,
	schema.AdditionalClass,
	schema.AdditionalFunctionality,
	schema.AdditionalObjectState,
	schema.AttributeRenaming,
	schema.AttributeTypeChange,
	schema.ClassRenaming,
	schema.CommentDelete,
	schema.CommentInsert,
	schema.CommentMove,
	schema.CommentUpdate,
	schema.DocDelete,
	schema.DocInsert,
	schema.DocUpdate,
	schema.ParentClassChange,
	schema.ParentClassDelete,
	schema.ParentClassInsert,
	schema.ParentInterfaceChange,
	schema.ParentInterfaceDelete,
	schema.ParentInterfaceInsert,
	schema.RemovedClass,
	schema.RemovedFunctionality,
	schema.RemovedObjectState,
	schema.RemovingAttributeModifiability,
	schema.RemovingClassDerivability,
	schema.UnclassifiedChange,
}

// NewStandardProcessor merges the parameter and header change columns and
// drops every merged or discarded change column.
func NewStandardProcessor() attrs.Processor {
	params := columnNames(ParamsChangeTypes)
	header := columnNames(HeaderChangeTypes)

	var deleted []string
	deleted = append(deleted, params...)
	deleted = append(deleted, header...)
	deleted = append(deleted, columnNames(DiscardedChangeTypes)...)

	return attrs.Chain{
		attrs.SumColumns{Sources: params, Result: ParamsChangeColumn},
		attrs.SumColumns{Sources: header, Result: HeaderChangeColumn},
		attrs.DeleteColumns{Names: deleted},
	}
}

// NewProcessor returns the processor of a kind, followed by moving the label column last.
func NewProcessor(kind schema.ProcessorKind) (attrs.Processor, error) {
	switch kind {
	case schema.StandardProcessor, "":
		return attrs.Chain{NewStandardProcessor(), attrs.ReorderClass{}}, nil
	case schema.NoopProcessor:
		return attrs.Chain{attrs.ReorderClass{}}, nil
	default:
		return nil, fmt.Errorf("unsupported processor: %s", kind)
	}
}

func columnNames(types []schema.ChangeType) []string {
	out := make([]string, len(types))
	for i, ct := range types {
		out[i] = string(ct)
	}
	return out
}
