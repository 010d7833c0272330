package schema

import "fmt"

// ChangeType is a structural change classification shared with the diffing service.
type ChangeType string

// The closed set of change types, in their stable enumeration order.
const (
	AddingAttributeModifiability   ChangeType = "ADDING_ATTRIBUTE_MODIFIABILITY"
	AddingClassDerivability        ChangeType = "ADDING_CLASS_DERIVABILITY"
	AddingMethodOverridability     ChangeType = "ADDING_METHOD_OVERRIDABILITY"
	AdditionalClass                ChangeType = "ADDITIONAL_CLASS"
	AdditionalFunctionality        ChangeType = "ADDITIONAL_FUNCTIONALITY"
	AdditionalObjectState          ChangeType = "ADDITIONAL_OBJECT_STATE"
	AlternativePartDelete          ChangeType = "ALTERNATIVE_PART_DELETE"
	AlternativePartInsert          ChangeType = "ALTERNATIVE_PART_INSERT"
	AttributeRenaming              ChangeType = "ATTRIBUTE_RENAMING"
	AttributeTypeChange            ChangeType = "ATTRIBUTE_TYPE_CHANGE"
	ClassRenaming                  ChangeType = "CLASS_RENAMING"
	CommentDelete                  ChangeType = "COMMENT_DELETE"
	CommentInsert                  ChangeType = "COMMENT_INSERT"
	CommentMove                    ChangeType = "COMMENT_MOVE"
	CommentUpdate                  ChangeType = "COMMENT_UPDATE"
	ConditionExpressionChange      ChangeType = "CONDITION_EXPRESSION_CHANGE"
	DecreasingAccessibilityChange  ChangeType = "DECREASING_ACCESSIBILITY_CHANGE"
	DocDelete                      ChangeType = "DOC_DELETE"
	DocInsert                      ChangeType = "DOC_INSERT"
	DocUpdate                      ChangeType = "DOC_UPDATE"
	IncreasingAccessibilityChange  ChangeType = "INCREASING_ACCESSIBILITY_CHANGE"
	MethodRenaming                 ChangeType = "METHOD_RENAMING"
	ParameterDelete                ChangeType = "PARAMETER_DELETE"
	ParameterInsert                ChangeType = "PARAMETER_INSERT"
	ParameterOrderingChange        ChangeType = "PARAMETER_ORDERING_CHANGE"
	ParameterRenaming              ChangeType = "PARAMETER_RENAMING"
	ParameterTypeChange            ChangeType = "PARAMETER_TYPE_CHANGE"
	ParentClassChange              ChangeType = "PARENT_CLASS_CHANGE"
	ParentClassDelete              ChangeType = "PARENT_CLASS_DELETE"
	ParentClassInsert              ChangeType = "PARENT_CLASS_INSERT"
	ParentInterfaceChange          ChangeType = "PARENT_INTERFACE_CHANGE"
	ParentInterfaceDelete          ChangeType = "PARENT_INTERFACE_DELETE"
	ParentInterfaceInsert          ChangeType = "PARENT_INTERFACE_INSERT"
	RemovedClass                   ChangeType = "REMOVED_CLASS"
	RemovedFunctionality           ChangeType = "REMOVED_FUNCTIONALITY"
	RemovedObjectState             ChangeType = "REMOVED_OBJECT_STATE"
	RemovingAttributeModifiability ChangeType = "REMOVING_ATTRIBUTE_MODIFIABILITY"
	RemovingClassDerivability      ChangeType = "REMOVING_CLASS_DERIVABILITY"
	RemovingMethodOverridability   ChangeType = "REMOVING_METHOD_OVERRIDABILITY"
	ReturnTypeChange               ChangeType = "RETURN_TYPE_CHANGE"
	ReturnTypeDelete               ChangeType = "RETURN_TYPE_DELETE"
	ReturnTypeInsert               ChangeType = "RETURN_TYPE_INSERT"
	StatementDelete                ChangeType = "STATEMENT_DELETE"
	StatementInsert                ChangeType = "STATEMENT_INSERT"
	StatementOrderingChange        ChangeType = "STATEMENT_ORDERING_CHANGE"
	StatementParentChange          ChangeType = "STATEMENT_PARENT_CHANGE"
	StatementUpdate                ChangeType = "STATEMENT_UPDATE"
	UnclassifiedChange             ChangeType = "UNCLASSIFIED_CHANGE"
)

// ChangeTypes lists every change type in enumeration order.
var ChangeTypes = [...]ChangeType{
	AddingAttributeModifiability,
	AddingClassDerivability,
	AddingMethodOverridability,
	AdditionalClass,
	AdditionalFunctionality,
	AdditionalObjectState,
	AlternativePartDelete,
	AlternativePartInsert,
	AttributeRenaming,
	AttributeTypeChange,
	ClassRenaming,
	CommentDelete,
	CommentInsert,
	CommentMove,
	CommentUpdate,
	ConditionExpressionChange,
	DecreasingAccessibilityChange,
	DocDelete,
	DocInsert,
	DocUpdate,
	IncreasingAccessibilityChange,
	MethodRenaming,
	ParameterDelete,
	ParameterInsert,
	ParameterOrderingChange,
	ParameterRenaming,
	ParameterTypeChange,
	ParentClassChange,
	ParentClassDelete,
	ParentClassInsert,
	ParentInterfaceChange,
	ParentInterfaceDelete,
	ParentInterfaceInsert,
	RemovedClass,
	RemovedFunctionality,
	RemovedObjectState,
	RemovingAttributeModifiability,
	RemovingClassDerivability,
	RemovingMethodOverridability,
	ReturnTypeChange,
	ReturnTypeDelete,
	ReturnTypeInsert,
	StatementDelete,
	StatementInsert,
	StatementOrderingChange,
	StatementParentChange,
	StatementUpdate,
	UnclassifiedChange,
}

// NumChangeTypes is the size of the change type enumeration.
const NumChangeTypes = len(ChangeTypes)

var changeTypeOrdinals = func() map[ChangeType]int {
	m := make(map[ChangeType]int, NumChangeTypes)
	for i, ct := range ChangeTypes {
		m[ct] = i
	}
	return m
}()

// Ordinal returns the position of the change type in the enumeration, or -1 if unknown.
func (c ChangeType) Ordinal() int {
	if i, ok := changeTypeOrdinals[c]; ok {
		return i
	}
	return -1
}

// Valid reports whether the change type belongs to the enumeration.
func (c ChangeType) Valid() bool {
	return c.Ordinal() >= 0
}

// ParseChangeType validates a change type tag coming from an external source.
func ParseChangeType(s string) (ChangeType, error) {
	ct := ChangeType(s)
	if !ct.Valid() {
		return "", fmt.Errorf("unknown change type %q", s)
	}
	return ct, nil
}
