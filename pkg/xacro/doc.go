// Package xacro converts between URDF (Unified Robot Description Format)
// and xacro (XML macros) robot descriptions.
//
// The xacro to URDF direction is a small template interpreter: a first
// pass collects xacro:property, xacro:macro and xacro:include declarations
// and strips them from the tree, a second pass rewrites the tree,
// substituting ${name} references and inlining parameterized macro bodies
// at every invocation site. The URDF to xacro direction is the structural
// mirror: it groups repeated link subtrees, authors macros for them, and
// wraps the whole robot in a single prefix-parameterized macro so the
// model can be instantiated more than once without name collisions.
package xacro
