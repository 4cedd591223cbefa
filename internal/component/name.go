package component

// Name identifies an entity for humans and scripts.
type Name struct {
	Value string
}

func (n *Name) SetDefaults() { n.Value = "Entity" }

func (n Name) String() string { return "Name(" + n.Value + ")" }

// Tag groups entities.
type Tag struct {
	Value string
}

func (t *Tag) SetDefaults() { t.Value = "Untagged" }

func (t Tag) HasTag(tag string) bool { return t.Value == tag }

func (t Tag) String() string { return "Tag(" + t.Value + ")" }
