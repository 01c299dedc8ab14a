package ast

// Walk calls f on n and then on each of n's children in source order. The
// traversal is depth-first and visits every node exactly once.
func Walk(n Node, f func(Node)) {
	if n == nil {
		return
	}
	f(n)
	switch v := n.(type) {
	case *Program:
		Walk(v.Body, f)
	case *Block:
		for _, s := range v.Statements {
			Walk(s, f)
		}
	case *FunctionDef:
		Walk(v.Name, f)
		for _, p := range v.Params {
			Walk(p, f)
		}
		Walk(v.Body, f)
	case *If:
		Walk(v.Condition, f)
		Walk(v.RightBlock, f)
		Walk(v.WrongBlock, f)
	case *While:
		Walk(v.Condition, f)
		Walk(v.Body, f)
	case *Assign:
		Walk(v.Left, f)
		Walk(v.Right, f)
	case *FunctionCall:
		Walk(v.Name, f)
		for _, a := range v.Args {
			Walk(a, f)
		}
	case *Op:
		Walk(v.Left, f)
		Walk(v.Right, f)
	case *UnaryOp:
		Walk(v.Operand, f)
	}
}
