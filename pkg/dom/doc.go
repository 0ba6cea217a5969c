// Package dom is the platform node tree that myui renders into.
//
// A Document owns a tree of Nodes rooted at its body element. Nodes behave like
// their browser counterparts where it matters to a renderer: elements carry
// attributes, an inline style map, a value property and event listeners; text
// nodes carry character data; fragments group nodes and empty themselves when
// inserted.
//
// # Mutation journal
//
// When recording is enabled, every change to a node connected to the body is
// appended to the document's journal as a Mutation. Inserting a detached
// subtree records a single insert carrying a Snapshot of the subtree, so the
// journal is sufficient to replay the document on a remote client:
//
//	doc := dom.NewDocument()
//	doc.SetRecording(true)
//	div := doc.CreateElement("div")
//	div.SetAttribute("class", "card")
//	doc.Body().AppendChild(div)
//	muts := doc.TakeMutations() // one insert with the class in its snapshot
//
// Documents are not safe for concurrent use.
package dom
