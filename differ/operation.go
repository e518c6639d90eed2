package differ

// Kind is the closed set of schema operations the differ emits (§4.3).
type Kind string

const (
	AddTable         Kind = "addTable"
	DropTable        Kind = "dropTable"
	RenameTable      Kind = "renameTable"
	AddColumn        Kind = "addColumn"
	DropColumn       Kind = "dropColumn"
	RenameColumn     Kind = "renameColumn"
	AlterColumnType  Kind = "alterColumnType"
	AlterNullability Kind = "alterNullability"
	AlterDefault     Kind = "alterDefault"
	AddForeignKey    Kind = "addForeignKey"
	DropForeignKey   Kind = "dropForeignKey"
	AlterForeignKey  Kind = "alterForeignKey"
)

// Destructive reports whether k always contributes a warning regardless
// of destructive-operation gating (§4.3, §4.5).
func (k Kind) Destructive() bool {
	switch k {
	case DropTable, DropColumn, DropForeignKey, AlterColumnType:
		return true
	default:
		return false
	}
}

// Nullability is the to-state of an alterNullability operation.
type Nullability string

const (
	Null    Nullability = "null"
	NotNull Nullability = "not_null"
)

// Operation is one entry in the differ's output, carrying only the
// payload fields its Kind uses (§4.3's table).
type Operation struct {
	Kind Kind

	Table   string
	Columns []*Column // addTable's ordered column list, dropTable's columns for fallback

	From string // renameTable/renameColumn from, or alterColumnType/alterNullability/alterDefault from-value
	To   string // renameTable/renameColumn to, or alterColumnType/alterNullability/alterDefault to-value

	Column *Column // addColumn/dropColumn payload

	FK    *ForeignKey // addForeignKey/dropForeignKey payload, alterForeignKey's "to"
	FKOld *ForeignKey // alterForeignKey's "from"
}
