// Package visibility binds rendered elements to the live permission view.
//
// A Binding re-evaluates its Spec on every permission change and toggles
// the element through a Renderer, so content a viewer lost access to is
// removed without a navigation. Decisions follow the permission gate's
// rules: module access first when declared, then the capability
// requirement; an element that declares no capabilities stays hidden.
package visibility
