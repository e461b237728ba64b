// Package deploy relocates an application's build output into the
// deployment destination.
//
// A deployment is delete-then-move with no rollback:
//
//  1. resolve the target name (the application name, or the last path
//     segment of the frontend root when none is given)
//  2. remove <destination>/<target> if it exists
//  3. move <frontend>/<dist>[/apps]/<target> to <destination>/<target>
//
// If step 2 succeeds and step 3 fails, the destination is left without a
// deployed copy of that application. Callers report this; it is not
// recovered here.
package deploy
