// Package imageio loads and saves the image formats the viewer
// understands: PNG, JPEG, GIF (including animations), WebP, BMP, and
// TIFF. It also carries the destructive operations the editor applies
// on save: crop, resize, flip, rotate, blur, and sharpen.
//
// Every frame crossing the package boundary is *image.NRGBA,
// straight-alpha 8-bit, which is the layout the render texture upload
// and the CPU compositor both expect.
package imageio
